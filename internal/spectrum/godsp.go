package spectrum

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
)

// DSPPlan runs go-dsp's radix-2 FFT. Planning precomputes the radix-2
// factors so Execute never has to build them.
type DSPPlan struct {
	size   int
	closed bool
}

// NewDSPPlan prepares a go-dsp FFT; the size must be a power of two
func NewDSPPlan(size int) (Plan, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("godsp: %w %d (power of two required)", ErrInvalidSize, size)
	}

	fft.EnsureRadix2Factors(size)
	return &DSPPlan{size: size}, nil
}

// Size returns the transform length
func (p *DSPPlan) Size() int {
	return p.size
}

// Execute transforms in into out in half-complex layout
func (p *DSPPlan) Execute(in, out []float64) error {
	if p.closed {
		return ErrPlanClosed
	}
	if err := checkBuffers(p.size, in, out); err != nil {
		return err
	}

	packHalfComplex(fft.FFTReal(in), out)
	return nil
}

// Close marks the plan unusable
func (p *DSPPlan) Close() error {
	p.closed = true
	return nil
}
