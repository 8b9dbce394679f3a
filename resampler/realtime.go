package resampler

import (
	"math"

	"github.com/audiocore/rtresample/internal/rtassert"
)

// Mode selects the interpolation strategy the paired resampler uses to
// bridge the outer and inner sample rates, per spec.md §6.
type Mode int

const (
	// ModeLinear uses piecewise-linear interpolation: cheap, low latency,
	// low quality.
	ModeLinear Mode = iota
	// ModeCubic uses a 4-tap cubic kernel: moderate cost, no added
	// latency, better quality than Linear.
	ModeCubic
	// ModeLanczos uses the windowed-sinc kernel of internal/lanczos:
	// highest quality, adds latency for the warm-up described in
	// spec.md §4.F.
	ModeLanczos
)

func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeCubic:
		return "cubic"
	case ModeLanczos:
		return "lanczos"
	default:
		return "unknown"
	}
}

// BlockFunc is the inner-DSP contract of spec.md §6: it must be safe to
// call with in and out pointing at the same underlying buffers (when the
// inner and outer rates are equal, the caller's own inputs and outputs
// are passed straight through; the resampling modes pass the separate
// inputData and outputData scratch buffers), and must not capture
// allocating closures since it runs on the real-time audio thread.
type BlockFunc[T Sample] func(in, out [][]T, n, nChans int)

// addedLatency is the empirically-derived alignment constant from
// spec.md §4.F/§9, retained bit-exact for reference compatibility.
const addedLatency = 2

// Realtime bridges an outer host sample rate to a fixed inner processing
// rate around a caller-supplied block function, per spec.md §3 "Real-time
// resampler (paired)" and §4.E.
type Realtime[T Sample] struct {
	mode            Mode
	nChans          int
	innerSampleRate float64
	outerSampleRate float64
	inRatio         float64
	outRatio        float64
	maxOuterLength  int
	maxInnerLength  int
	latency         int

	inputData, outputData [][]T // scratch, [nChans][maxInnerLength]

	inResampler, outResampler *Lanczos[T]
}

// NewRealtime constructs a paired resampler running its inner DSP at
// innerSampleRate across nChans channels. Call Reset before processing;
// construction alone does not allocate scratch buffers since the outer
// rate and block size aren't known yet.
func NewRealtime[T Sample](innerSampleRate float64, mode Mode, nChans int) (*Realtime[T], error) {
	if innerSampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if nChans <= 0 {
		return nil, ErrInvalidChannels
	}
	if mode < ModeLinear || mode > ModeLanczos {
		return nil, ErrUnknownMode
	}
	return &Realtime[T]{
		mode:            mode,
		nChans:          nChans,
		innerSampleRate: innerSampleRate,
	}, nil
}

// SetMode changes the resampling strategy. Reset must be called again
// afterward before ProcessBlock, per spec.md §6.
func (r *Realtime[T]) SetMode(mode Mode) error {
	if mode < ModeLinear || mode > ModeLanczos {
		return ErrUnknownMode
	}
	r.mode = mode
	return nil
}

// GetLatency reports the resampler's own added latency in outer samples,
// not including any latency of the encapsulated DSP, per spec.md §6.
func (r *Realtime[T]) GetLatency() int { return r.latency }

// Reset reconfigures the resampler for a new outer sample rate and
// maximum block size, clearing all state. This is the only place that
// allocates; ProcessBlock never does, per spec.md §4.F/§5.
func (r *Realtime[T]) Reset(outerSampleRate float64, maxBlockSize int) error {
	if outerSampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	if maxBlockSize <= 0 {
		return ErrInvalidBlockSize
	}

	r.outerSampleRate = outerSampleRate
	r.inRatio = r.outerSampleRate / r.innerSampleRate
	r.outRatio = r.innerSampleRate / r.outerSampleRate
	r.maxOuterLength = maxBlockSize
	r.maxInnerLength = r.calculateMaxInnerLength(maxBlockSize)

	r.inputData = make([][]T, r.nChans)
	r.outputData = make([][]T, r.nChans)
	for c := 0; c < r.nChans; c++ {
		r.inputData[c] = make([]T, r.maxInnerLength)
		r.outputData[c] = make([]T, r.maxInnerLength)
	}

	if r.mode == ModeLanczos {
		r.inResampler = NewLanczos[T](r.outerSampleRate, r.innerSampleRate, r.nChans)
		r.outResampler = NewLanczos[T](r.innerSampleRate, r.outerSampleRate, r.nChans)

		// Warm up with silence so the first real block can yield the
		// required number of output samples, per spec.md §4.F.
		outSamplesRequired := r.outResampler.GetNumSamplesRequiredFor(1)
		inSamplesRequired := r.inResampler.GetNumSamplesRequiredFor(outSamplesRequired)

		r.inResampler.PushBlock(r.inputData, inSamplesRequired, r.nChans)
		populated := r.inResampler.PopBlock(r.inputData, outSamplesRequired, r.nChans)
		r.outResampler.PushBlock(r.inputData, populated, r.nChans)

		r.latency = inSamplesRequired + addedLatency
	} else {
		r.inResampler = nil
		r.outResampler = nil
		r.latency = 0
	}

	return nil
}

// ProcessBlock resamples an outer-rate block through fn, which runs at
// the inner sample rate, and resamples the result back, per spec.md
// §4.E. nFrames may be zero, in which case ProcessBlock returns
// immediately without touching fn or any state (spec.md §8 boundary
// behaviour).
func (r *Realtime[T]) ProcessBlock(inputs, outputs [][]T, nFrames, nChans int, fn BlockFunc[T]) {
	if nFrames == 0 {
		return
	}

	if r.innerSampleRate == r.outerSampleRate {
		fn(inputs, outputs, nFrames, nChans)
		return
	}

	rtassert.Assert(nFrames <= r.maxOuterLength, "ProcessBlock: block exceeds configured max block size")
	if nFrames > r.maxOuterLength {
		nFrames = r.maxOuterLength
	}

	switch r.mode {
	case ModeLinear:
		n := linearInterpolate(inputs, r.inputData, nFrames, nChans, r.inRatio, r.maxInnerLength)
		fn(r.inputData, r.outputData, n, nChans)
		linearInterpolate(r.outputData, outputs, n, nChans, r.outRatio, nFrames)

	case ModeCubic:
		n := cubicInterpolate(inputs, r.inputData, nFrames, nChans, r.inRatio, r.maxInnerLength)
		fn(r.inputData, r.outputData, n, nChans)
		cubicInterpolate(r.outputData, outputs, n, nChans, r.outRatio, nFrames)

	case ModeLanczos:
		r.inResampler.PushBlock(inputs, nFrames, nChans)
		maxInner := r.calculateMaxInnerLength(nFrames)

		for r.inResampler.GetNumSamplesRequiredFor(1) == 0 {
			populated := r.inResampler.PopBlock(r.inputData, maxInner, nChans)
			fn(r.inputData, r.outputData, populated, nChans)
			r.outResampler.PushBlock(r.outputData, populated, nChans)
		}

		popped := r.outResampler.PopBlock(outputs, nFrames, nChans)
		rtassert.Assert(popped == nFrames, "ProcessBlock: output resampler produced fewer samples than requested")
		for c := 0; c < nChans; c++ {
			for s := popped; s < nFrames; s++ {
				outputs[c][s] = 0
			}
		}

		r.inResampler.RenormalizePhases()
		r.outResampler.RenormalizePhases()
	}
}

func (r *Realtime[T]) calculateMaxInnerLength(outerLength int) int {
	return int(math.Ceil(float64(outerLength) / r.inRatio))
}
