package spectrum

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveDFT is the reference forward transform
func naiveDFT(in []float64) []complex128 {
	n := len(in)
	out := make([]complex128, n)
	for k := 0; k < n; k++ {
		var sum complex128
		for j, x := range in {
			sum += complex(x, 0) * cmplx.Exp(complex(0, -2*math.Pi*float64(j*k)/float64(n)))
		}
		out[k] = sum
	}
	return out
}

func testSignal(n int) []float64 {
	in := make([]float64, n)
	for i := range in {
		x := float64(i)
		in[i] = math.Sin(2*math.Pi*3*x/float64(n)) + 0.5*math.Cos(2*math.Pi*5.3*x/float64(n)+0.7) + 0.1
	}
	return in
}

func TestBackendsMatchReferenceDFT(t *testing.T) {
	const n = 64
	in := testSignal(n)
	want := naiveDFT(in)

	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			planner, err := Lookup(name)
			require.NoError(t, err)

			plan, err := planner.Plan(n)
			require.NoError(t, err)
			defer plan.Close()
			assert.Equal(t, n, plan.Size())

			out := make([]float64, n)
			require.NoError(t, plan.Execute(in, out))

			for k := 0; k <= n/2; k++ {
				assert.InDelta(t, real(want[k]), out[k], 1e-9, "real part of bin %d", k)
			}
			for k := 1; k < (n+1)/2; k++ {
				assert.InDelta(t, imag(want[k]), out[n-k], 1e-9, "imaginary part of bin %d", k)
			}
		})
	}
}

func TestGonumPlanOddSize(t *testing.T) {
	const n = 15
	in := testSignal(n)
	want := naiveDFT(in)

	plan, err := NewGonumPlan(n)
	require.NoError(t, err)

	out := make([]float64, n)
	require.NoError(t, plan.Execute(in, out))
	for k := 1; k <= (n-1)/2; k++ {
		assert.InDelta(t, real(want[k]), out[k], 1e-9)
		assert.InDelta(t, imag(want[k]), out[n-k], 1e-9)
	}
}

func TestPlanReuse(t *testing.T) {
	plan, err := NewGonumPlan(32)
	require.NoError(t, err)

	first := make([]float64, 32)
	second := make([]float64, 32)
	in := testSignal(32)
	require.NoError(t, plan.Execute(in, first))
	require.NoError(t, plan.Execute(in, second))
	assert.Equal(t, first, second)
}

func TestPlanErrors(t *testing.T) {
	_, err := NewGonumPlan(1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewDSPPlan(48)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Lookup("fftw")
	assert.ErrorIs(t, err, ErrUnknownBackend)

	planner, err := Lookup("GONUM")
	require.NoError(t, err)
	plan, err := planner.Plan(16)
	require.NoError(t, err)

	assert.ErrorIs(t, plan.Execute(make([]float64, 8), make([]float64, 16)), ErrLengthMismatch)

	require.NoError(t, plan.Close())
	assert.ErrorIs(t, plan.Execute(make([]float64, 16), make([]float64, 16)), ErrPlanClosed)

	dsp, err := NewDSPPlan(16)
	require.NoError(t, err)
	require.NoError(t, dsp.Close())
	assert.ErrorIs(t, dsp.Execute(make([]float64, 16), make([]float64, 16)), ErrPlanClosed)
}

func TestBackends(t *testing.T) {
	assert.Equal(t, []string{"godsp", "gonum"}, Backends())
}
