package halfband

// Upsampler2x doubles the sample rate of its input using a half-band
// all-pass cascade, per spec.md §4.B.
type Upsampler2x[T Sample] struct {
	stage *Stage[T]
}

// NewUpsampler2x allocates an upsampler with nc all-pass sections.
func NewUpsampler2x[T Sample](nc int) *Upsampler2x[T] {
	return &Upsampler2x[T]{stage: NewStage[T](nc)}
}

// SetCoefs installs the filter coefficients.
func (u *Upsampler2x[T]) SetCoefs(coefArr []T) { u.stage.SetCoefs(coefArr) }

// ClearBuffers clears filter history.
func (u *Upsampler2x[T]) ClearBuffers() { u.stage.ClearBuffers() }

// ProcessSample upsamples one input sample into two output samples.
func (u *Upsampler2x[T]) ProcessSample(input T) (out0, out1 T) {
	even, odd := input, input
	u.stage.ProcessSamplePos(&even, &odd)
	return even, odd
}

// ProcessBlock upsamples nbrSpl input samples into 2*nbrSpl output
// samples. in and out may not overlap.
func (u *Upsampler2x[T]) ProcessBlock(out, in []T) {
	n := len(in)
	for pos := 0; pos < n; pos++ {
		o0, o1 := u.ProcessSample(in[pos])
		out[pos*2] = o0
		out[pos*2+1] = o1
	}
}

// Downsampler2x halves the sample rate of its input using a half-band
// all-pass cascade, per spec.md §4.B.
type Downsampler2x[T Sample] struct {
	stage *Stage[T]
}

// NewDownsampler2x allocates a downsampler with nc all-pass sections.
func NewDownsampler2x[T Sample](nc int) *Downsampler2x[T] {
	return &Downsampler2x[T]{stage: NewStage[T](nc)}
}

// SetCoefs installs the filter coefficients.
func (d *Downsampler2x[T]) SetCoefs(coefArr []T) { d.stage.SetCoefs(coefArr) }

// ClearBuffers clears filter history.
func (d *Downsampler2x[T]) ClearBuffers() { d.stage.ClearBuffers() }

// ProcessSample downsamples a pair of input samples into one output
// sample, averaging the two all-pass phase outputs.
func (d *Downsampler2x[T]) ProcessSample(in [2]T) T {
	spl0, spl1 := in[1], in[0]
	d.stage.ProcessSamplePos(&spl0, &spl1)
	return T(0.5) * (spl0 + spl1)
}

// ProcessBlock downsamples nbrSpl*2 input samples into nbrSpl output
// samples.
func (d *Downsampler2x[T]) ProcessBlock(out, in []T) {
	n := len(out)
	for pos := 0; pos < n; pos++ {
		out[pos] = d.ProcessSample([2]T{in[pos*2], in[pos*2+1]})
	}
}

// ProcessSampleSplit downsamples a pair of input samples, returning both
// the low half of the spectrum (equivalent to ProcessSample) and the
// high half (the critically-decimated, mirror-flipped upper band), per
// spec.md §3/§4.B.
func (d *Downsampler2x[T]) ProcessSampleSplit(in [2]T) (low, high T) {
	spl0, spl1 := in[1], in[0]
	d.stage.ProcessSamplePos(&spl0, &spl1)
	low = (spl0 + spl1) * T(0.5)
	high = spl0 - low
	return low, high
}

// ProcessBlockSplit downsamples nbrSpl*2 input samples into nbrSpl low
// and nbrSpl high output samples.
func (d *Downsampler2x[T]) ProcessBlockSplit(outLow, outHigh, in []T) {
	n := len(outLow)
	for pos := 0; pos < n; pos++ {
		low, high := d.ProcessSampleSplit([2]T{in[pos*2], in[pos*2+1]})
		outLow[pos] = low
		outHigh[pos] = high
	}
}
