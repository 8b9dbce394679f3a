// Package resampler implements the arbitrary-ratio streaming resampler
// (spec components D/E/F): a single-direction windowed-sinc engine
// (Lanczos), and the paired Realtime wrapper that bridges an outer host
// rate to a fixed inner processing rate around a caller-supplied block
// function.
package resampler

import (
	"math"

	"github.com/audiocore/rtresample/internal/halfband"
	"github.com/audiocore/rtresample/internal/lanczos"
)

// Sample is the floating point type the resampler operates on.
type Sample = halfband.Sample

// bufferSize is the per-channel ring buffer capacity, B in spec.md §3.
// It must be a power of two: PushBlock/PopBlock rely on masking instead
// of modulo for the branchless wrap spec.md §9 calls out.
const bufferSize = 4096

// Lanczos is a single-direction windowed-sinc streaming resampler, per
// spec.md §3 "Lanczos resampler instance". Construct one pair (input
// rate -> inner rate, inner rate -> outer rate) to build the bridging
// resampler spec.md §4.E describes; Realtime does exactly that.
type Lanczos[T Sample] struct {
	table *lanczos.Table

	inputBuf [][]T // [nChans][2*bufferSize]
	writePos int

	phaseIn      float64
	phaseOut     float64
	phaseInIncr  float64
	phaseOutIncr float64

	nChans int
}

// NewLanczos constructs a resampler converting inputRate to outputRate
// across nChans channels. The kernel table is the process-wide default
// (spec.md §5); it is built at most once regardless of how many
// resamplers are constructed.
func NewLanczos[T Sample](inputRate, outputRate float64, nChans int) *Lanczos[T] {
	r := &Lanczos[T]{
		table:        lanczos.Default(),
		nChans:       nChans,
		phaseInIncr:  1.0,
		phaseOutIncr: inputRate / outputRate,
	}
	r.inputBuf = make([][]T, nChans)
	for c := range r.inputBuf {
		r.inputBuf[c] = make([]T, bufferSize*2)
	}
	return r
}

// Reset clears the ring buffer. Phase accumulators are left untouched:
// spec.md only requires the buffer to be cleared on Reset, the lifecycle
// entry in spec.md §3 lists phase reset as part of construction/renormalization,
// not Reset.
func (r *Lanczos[T]) Reset() {
	r.ClearBuffer()
}

// ClearBuffer zeroes the ring buffer, per spec.md §3.
func (r *Lanczos[T]) ClearBuffer() {
	for c := range r.inputBuf {
		for i := range r.inputBuf[c] {
			r.inputBuf[c][i] = 0
		}
	}
}

// GetNumSamplesRequiredFor returns how many more input samples must be
// pushed before nOutputSamples more samples can be popped, per spec.md
// §4.E.
func (r *Lanczos[T]) GetNumSamplesRequiredFor(nOutputSamples int) int {
	a := float64(r.table.A)
	res := a + 1.0 - (r.phaseIn - r.phaseOut - r.phaseOutIncr*float64(nOutputSamples))
	need := res + 1.0
	if need < 0 {
		return 0
	}
	return int(need)
}

// PushBlock appends nFrames samples per channel into the ring buffer.
// Samples are written at both writePos and writePos+bufferSize so any
// contiguous read of up to bufferSize samples wraps without branching,
// per spec.md §3/§9.
func (r *Lanczos[T]) PushBlock(inputs [][]T, nFrames, nChans int) {
	for s := 0; s < nFrames; s++ {
		for c := 0; c < nChans; c++ {
			v := inputs[c][s]
			r.inputBuf[c][r.writePos] = v
			r.inputBuf[c][r.writePos+bufferSize] = v
		}
		r.writePos = (r.writePos + 1) & (bufferSize - 1)
		r.phaseIn += r.phaseInIncr
	}
}

// PopBlock pops up to max samples per channel into outputs, returning
// the number actually produced, per spec.md §4.E. It stops early when
// the kernel no longer has A taps of margin on either side of the read
// position.
func (r *Lanczos[T]) PopBlock(outputs [][]T, max, nChans int) int {
	a := float64(r.table.A)
	populated := 0
	for populated < max && (r.phaseIn-r.phaseOut) > a+1 {
		r.readSamples(r.phaseIn-r.phaseOut, outputs, populated, nChans)
		r.phaseOut += r.phaseOutIncr
		populated++
	}
	return populated
}

// RenormalizePhases reduces both phase accumulators modulo their common
// offset, preventing double-precision drift over long runs, per spec.md
// §3/§5. It has no observable effect on the next popped sample beyond
// floating point rounding.
func (r *Lanczos[T]) RenormalizePhases() {
	r.phaseIn -= r.phaseOut
	r.phaseOut = 0
}

// readSamples implements the inner loop of spec.md §4.D: given xBack
// fractional samples behind the write position, interpolate the kernel
// row and convolve it against the ring buffer.
func (r *Lanczos[T]) readSamples(xBack float64, outputs [][]T, s, nChans int) {
	a := r.table.A
	bufferReadPosition := float64(r.writePos) - xBack
	bufferReadIndex := int(math.Floor(bufferReadPosition))
	bufferFracPosition := 1.0 - (bufferReadPosition - float64(bufferReadIndex))

	bufferReadIndex = (bufferReadIndex + bufferSize) & (bufferSize - 1)
	if bufferReadIndex <= a {
		bufferReadIndex += bufferSize
	}

	tablePosition := bufferFracPosition * float64(r.table.P)
	tableIndex := int(tablePosition)
	tableFracPosition := tablePosition - float64(tableIndex)

	row := r.table.Values[tableIndex]
	drow := r.table.Deltas[tableIndex]

	for c := 0; c < nChans; c++ {
		var sum float64
		buf := r.inputBuf[c]
		for i := 0; i < a; i++ {
			f0 := row[i] + drow[i]*tableFracPosition
			f1 := row[a+i] + drow[a+i]*tableFracPosition
			d0 := float64(buf[bufferReadIndex-a+i])
			d1 := float64(buf[bufferReadIndex+i])
			sum += f0*d0 + f1*d1
		}
		outputs[c][s] = T(sum)
	}
}
