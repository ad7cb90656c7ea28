// Package spectrum wraps real-input Fourier transforms behind a plan that is
// prepared once for a fixed size and executed many times.
//
// Every backend writes its output in half-complex layout: out[k] holds the
// real part of bin k for k = 0..n/2 and out[n-k] holds the imaginary part of
// bin k for k = 1..(n-1)/2, using the forward exp(-2πi·jk/n) convention.
package spectrum

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors
var (
	ErrInvalidSize    = errors.New("invalid transform size")
	ErrUnknownBackend = errors.New("unknown transform backend")
	ErrPlanClosed     = errors.New("transform plan closed")
	ErrLengthMismatch = errors.New("buffer length does not match plan size")
)

// Plan executes a forward real transform of a fixed size
type Plan interface {
	// Size returns the transform length
	Size() int

	// Execute transforms in into out (both of length Size) in half-complex layout
	Execute(in, out []float64) error

	// Close releases the plan
	Close() error
}

// Planner prepares plans for a given size
type Planner interface {
	Plan(size int) (Plan, error)
}

// PlannerFunc adapts a function to the Planner interface
type PlannerFunc func(size int) (Plan, error)

// Plan calls f(size)
func (f PlannerFunc) Plan(size int) (Plan, error) {
	return f(size)
}

var backends = map[string]Planner{
	"gonum": PlannerFunc(NewGonumPlan),
	"godsp": PlannerFunc(NewDSPPlan),
}

// Backends returns the names of the registered transform backends
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the planner registered under name
func Lookup(name string) (Planner, error) {
	p, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
	return p, nil
}

// packHalfComplex writes complex coefficients for bins 0..n/2 into out
func packHalfComplex(coeffs []complex128, out []float64) {
	n := len(out)
	for k := 0; k <= n/2; k++ {
		out[k] = real(coeffs[k])
	}
	for k := 1; k < (n+1)/2; k++ {
		out[n-k] = imag(coeffs[k])
	}
}

// checkBuffers validates the buffers handed to Execute
func checkBuffers(size int, in, out []float64) error {
	if len(in) != size || len(out) != size {
		return fmt.Errorf("%w: plan %d, input %d, output %d", ErrLengthMismatch, size, len(in), len(out))
	}
	return nil
}
