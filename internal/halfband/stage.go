// Package halfband implements the half-band polyphase all-pass IIR stage
// that the integer oversampler is built from (spec components A and B:
// the single cascade section, and the 2x up/down-sampler pair wrapping
// it).
//
// The cascade itself is the classic Laurent de Soras HIIR design: NC
// first-order all-pass sections processed against two interleaved
// sample phases sharing one history buffer. See
// github.com/audiocore/rtresample/SPEC_FULL.md for the iPlug2 source
// this was distilled from.
package halfband

import "github.com/audiocore/rtresample/util"

// Sample is the floating point type the resampling core operates on.
type Sample interface {
	~float32 | ~float64
}

// denormalThreshold is the magnitude below which section history is
// flushed to exact zero. Allpass cascades left running on silence decay
// their state toward zero asymptotically rather than reaching it, which
// on x86 FPUs without flush-to-zero enabled leaves denormal values in
// y[k]/x[k] that are dramatically slower to operate on than normal
// floats — a real-time cost spec.md §5's allocation-free/no-surprises
// hot path shouldn't pay for processing silence.
const denormalThreshold = 1e-15

// Stage holds the coefficients and per-instance history for one
// half-band all-pass cascade of NC first-order sections.
//
// NC is a struct field rather than a type parameter: the oversampler
// cascades four stages with different tap counts (12, 4, 3, 2) and
// needs to hold them in a uniform slice of stages to loop over during
// Reset/bypass handling, which a const-generic NC would prevent without
// resorting to `any` and type assertions anyway.
type Stage[T Sample] struct {
	coef []T
	x    []T
	y    []T
}

// NewStage allocates a stage for nc coefficients. Coefficients and
// history start at zero; call SetCoefs before processing.
func NewStage[T Sample](nc int) *Stage[T] {
	return &Stage[T]{
		coef: make([]T, nc),
		x:    make([]T, nc),
		y:    make([]T, nc),
	}
}

// NC reports the number of all-pass sections in the cascade.
func (s *Stage[T]) NC() int {
	return len(s.coef)
}

// SetCoefs installs the filter coefficients. coefArr must have exactly
// NC() entries; it is copied, not retained.
func (s *Stage[T]) SetCoefs(coefArr []T) {
	copy(s.coef, coefArr)
}

// ClearBuffers resets the history arrays to silence, as specified by
// spec.md §3 ("x and y are zeroed by clear_buffers and after
// construction").
func (s *Stage[T]) ClearBuffers() {
	for i := range s.x {
		s.x[i] = 0
		s.y[i] = 0
	}
}

// ProcessSamplePos advances the NC all-pass sections for both phases of
// a sample pair, per spec.md §4.A: each section updates
// y[k] = coef[k]*(spl-y[k]) + x[k], feeds x[k] <- spl, and replaces
// spl <- y[k]. The sections are interleaved between the two phases of
// the polyphase structure: spl0 runs through the even-indexed sections
// (0, 2, 4, ...) and spl1 through the odd-indexed ones, so each phase
// has its own path through the shared x/y arrays. With an odd NC the
// last section acts on spl0 only.
func (s *Stage[T]) ProcessSamplePos(spl0, spl1 *T) {
	nc := len(s.coef)
	cur := *spl0
	for k := 0; k < nc; k += 2 {
		yk := s.coef[k]*(cur-s.y[k]) + s.x[k]
		if util.Abs(yk) < T(denormalThreshold) {
			yk = 0
		}
		s.x[k] = cur
		s.y[k] = yk
		cur = yk
	}
	*spl0 = cur

	cur = *spl1
	for k := 1; k < nc; k += 2 {
		yk := s.coef[k]*(cur-s.y[k]) + s.x[k]
		if util.Abs(yk) < T(denormalThreshold) {
			yk = 0
		}
		s.x[k] = cur
		s.y[k] = yk
		cur = yk
	}
	*spl1 = cur
}
