package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// GonumPlan runs gonum's real FFT with its twiddle factors and coefficient
// buffer allocated once
type GonumPlan struct {
	fft    *fourier.FFT
	coeffs []complex128
	size   int
}

// NewGonumPlan prepares a gonum FFT of the given size
func NewGonumPlan(size int) (Plan, error) {
	if size < 2 {
		return nil, fmt.Errorf("gonum: %w %d", ErrInvalidSize, size)
	}

	return &GonumPlan{
		fft:    fourier.NewFFT(size),
		coeffs: make([]complex128, size/2+1),
		size:   size,
	}, nil
}

// Size returns the transform length
func (p *GonumPlan) Size() int {
	return p.size
}

// Execute transforms in into out in half-complex layout
func (p *GonumPlan) Execute(in, out []float64) error {
	if p.fft == nil {
		return ErrPlanClosed
	}
	if err := checkBuffers(p.size, in, out); err != nil {
		return err
	}

	p.coeffs = p.fft.Coefficients(p.coeffs, in)
	packHalfComplex(p.coeffs, out)
	return nil
}

// Close drops the plan's buffers
func (p *GonumPlan) Close() error {
	p.fft = nil
	p.coeffs = nil
	return nil
}
