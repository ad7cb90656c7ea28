package pitch

import (
	"math"

	"github.com/0xlemi/tunescope/internal/spectrum"
)

// SpectralFrame runs the planned transform over the sample window and exposes
// per-bin real and imaginary parts, phases and magnitudes.
//
// Bins are addressed by their transform index 1..BinCount; DC (0) and Nyquist
// are never exposed.
type SpectralFrame struct {
	plan       spectrum.Plan
	output     []float64
	magnitudes []float64
	size       int
}

// NewSpectralFrame prepares a transform plan for size samples
func NewSpectralFrame(planner spectrum.Planner, size int) (*SpectralFrame, error) {
	plan, err := planner.Plan(size)
	if err != nil {
		return nil, &TransformInitError{Size: size, Err: err}
	}
	if plan == nil {
		return nil, &TransformInitError{Size: size, Err: spectrum.ErrInvalidSize}
	}

	return &SpectralFrame{
		plan:       plan,
		output:     make([]float64, size),
		magnitudes: make([]float64, (size-1)/2),
		size:       size,
	}, nil
}

// Compute transforms samples and refreshes every bin magnitude
func (f *SpectralFrame) Compute(samples []float64) error {
	if err := f.plan.Execute(samples, f.output); err != nil {
		return err
	}

	// Normalize by the buffer size so cutoffs do not depend on it
	norm := 1 / float64(f.size)
	for slot := range f.magnitudes {
		re, im := f.Real(slot+1), f.Imag(slot+1)
		f.magnitudes[slot] = math.Sqrt(re*re+im*im) * norm
	}

	return nil
}

// BinCount returns the number of usable bins
func (f *SpectralFrame) BinCount() int {
	return len(f.magnitudes)
}

// Real returns the real part of bin index
func (f *SpectralFrame) Real(index int) float64 {
	return f.output[index]
}

// Imag returns the imaginary part of bin index
func (f *SpectralFrame) Imag(index int) float64 {
	return f.output[f.size-index]
}

// Phase returns the angle of bin index in radians
func (f *SpectralFrame) Phase(index int) float64 {
	return math.Atan2(f.Imag(index), f.Real(index))
}

// Magnitude returns the normalized magnitude of bin index
func (f *SpectralFrame) Magnitude(index int) float64 {
	return f.magnitudes[index-1]
}

// Magnitudes returns all magnitudes; slot i holds bin index i+1
func (f *SpectralFrame) Magnitudes() []float64 {
	return f.magnitudes
}

// Close releases the transform plan
func (f *SpectralFrame) Close() error {
	if f.plan == nil {
		return nil
	}
	err := f.plan.Close()
	f.plan = nil
	return err
}
