// Package lanczos builds the process-wide windowed-sinc lookup table used
// by the arbitrary-rate resampler (spec component D). The table is
// immutable after construction and safe to share across every Lanczos
// resampler instance in the process.
package lanczos

import (
	"math"
	"sync"
)

// DefaultA is the reference filter half-width: a window spanning 2*A
// taps in total, A on either side of the read position.
const DefaultA = 12

// DefaultP is the reference fractional-position table resolution.
const DefaultP = 8192

// Table holds the discretised sinc-window kernel values (Values) and
// the forward differences between consecutive fractional rows (Deltas),
// per spec.md §3/§4.D. Values[t][i] and Deltas[t][i] are indexed by
// fractional table row t in [0, P] and tap offset i in [0, 2*A).
type Table struct {
	A      int
	P      int
	Values [][]float64
	Deltas [][]float64
}

// New builds a table for filter half-width a and fractional resolution
// p. Building is deterministic and idempotent: calling New twice with
// the same (a, p) produces bit-identical tables. Most callers want
// Default, which memoises the reference (A=12, P=8192) table behind a
// sync.Once guard so repeated resampler construction does the work only
// once per process, per spec.md §5/§9.
func New(a, p int) *Table {
	width := 2 * a
	deltaX := 1.0 / float64(p)

	values := make([][]float64, p+1)
	for t := 0; t <= p; t++ {
		row := make([]float64, width)
		x0 := deltaX * float64(t)
		for i := 0; i < width; i++ {
			row[i] = kernel(x0+float64(i)-float64(a), a)
		}
		values[t] = row
	}

	deltas := make([][]float64, p+1)
	for t := 0; t < p; t++ {
		row := make([]float64, width)
		for i := 0; i < width; i++ {
			row[i] = values[t+1][i] - values[t][i]
		}
		deltas[t] = row
	}
	// Wrap at the end: the delta for the last row is the same as the
	// first, per spec.md §4.D / the iPlug2 reference.
	deltas[p] = append([]float64(nil), deltas[0]...)

	return &Table{A: a, P: p, Values: values, Deltas: deltas}
}

// kernel evaluates the A-wide Lanczos window: 1 at x=0, else
// A*sin(pi*x)*sin(pi*x/A) / (pi^2 * x^2), per spec.md §3.
func kernel(x float64, a int) float64 {
	if math.Abs(x) < 1e-7 {
		return 1.0
	}
	af := float64(a)
	return af * math.Sin(math.Pi*x) * math.Sin(math.Pi*x/af) / (math.Pi * math.Pi * x * x)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide reference table (A=12, P=8192),
// building it exactly once regardless of how many resamplers are
// constructed or from how many goroutines, per spec.md §5's
// "implementations running multiple instances on different threads must
// guard initialization with a once-lock".
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New(DefaultA, DefaultP)
	})
	return defaultTable
}
