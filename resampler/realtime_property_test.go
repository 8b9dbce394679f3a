package resampler

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

// TestLanczosSampleCountBoundProperty exercises spec.md §8's stated bound
// for the single-direction engine across randomized rates and push sizes:
// floor(n*outRatio)-2 <= popped <= floor(n*outRatio).
func TestLanczosSampleCountBoundProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputRate := rapid.Float64Range(8000, 192000).Draw(t, "inputRate")
		outputRate := rapid.Float64Range(8000, 192000).Draw(t, "outputRate")
		n := rapid.IntRange(64, 4000).Draw(t, "n")

		r := NewLanczos[float64](inputRate, outputRate, 1)
		in := make([]float64, n)
		for i := range in {
			in[i] = math.Sin(float64(i) * 0.01)
		}
		r.PushBlock([][]float64{in}, n, 1)

		out := make([]float64, n)
		got := r.PopBlock([][]float64{out}, n, 1)

		outRatio := outputRate / inputRate
		upper := int(math.Floor(float64(n) * outRatio))
		lower := upper - 2
		if lower < 0 {
			lower = 0
		}

		if got > upper || got < lower {
			t.Fatalf("inputRate=%v outputRate=%v n=%d: popped %d, want in [%d, %d]",
				inputRate, outputRate, n, got, lower, upper)
		}
	})
}

// TestRenormalizePhasesNoOpProperty checks that RenormalizePhases never
// changes the next sample a sequence of pushes/pops would produce, across
// randomized call interleavings.
func TestRenormalizePhasesNoOpProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputRate := rapid.Float64Range(8000, 192000).Draw(t, "inputRate")
		outputRate := rapid.Float64Range(8000, 192000).Draw(t, "outputRate")
		pushes := rapid.IntRange(1, 6).Draw(t, "pushes")
		pushLen := rapid.IntRange(16, 256).Draw(t, "pushLen")

		a := NewLanczos[float64](inputRate, outputRate, 1)
		b := NewLanczos[float64](inputRate, outputRate, 1)

		for i := 0; i < pushes; i++ {
			in := make([]float64, pushLen)
			for j := range in {
				in[j] = math.Sin(float64(i*pushLen+j) * 0.013)
			}
			a.PushBlock([][]float64{in}, pushLen, 1)
			b.PushBlock([][]float64{in}, pushLen, 1)

			outA := make([]float64, pushLen)
			outB := make([]float64, pushLen)
			na := a.PopBlock([][]float64{outA}, pushLen, 1)
			nb := b.PopBlock([][]float64{outB}, pushLen, 1)

			if na != nb {
				t.Fatalf("pop count diverged: %d vs %d", na, nb)
			}
			for k := 0; k < na; k++ {
				if math.Abs(outA[k]-outB[k]) > 1e-9 {
					t.Fatalf("sample %d diverged after renormalize: %v vs %v", k, outA[k], outB[k])
				}
			}
			b.RenormalizePhases()
		}
	})
}

// TestRealtimeProcessBlockNeverProducesNonFiniteOutput fans across modes,
// rate pairs and block sizes and checks the one invariant that must hold
// regardless of mode: no NaN/Inf ever reaches the outer buffer.
func TestRealtimeProcessBlockNeverProducesNonFiniteOutput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := Mode(rapid.IntRange(0, 2).Draw(t, "mode"))
		innerRate := rapid.Float64Range(8000, 192000).Draw(t, "innerRate")
		outerRate := rapid.Float64Range(8000, 192000).Draw(t, "outerRate")
		blockSize := rapid.IntRange(1, 512).Draw(t, "blockSize")

		r, err := NewRealtime[float64](innerRate, mode, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Reset(outerRate, blockSize); err != nil {
			t.Fatal(err)
		}

		in := make([]float64, blockSize)
		for i := range in {
			in[i] = math.Sin(float64(i) * 0.05)
		}
		out := make([]float64, blockSize)

		r.ProcessBlock([][]float64{in}, [][]float64{out}, blockSize, 1, identityBlock[float64])

		for _, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("mode=%v innerRate=%v outerRate=%v blockSize=%d: non-finite sample %v",
					mode, innerRate, outerRate, blockSize, v)
			}
		}
	})
}
