// Package stats provides small running-statistics primitives that are chained
// together to turn a stream of raw phase samples into a stable estimate.
//
// All counters are plain value types so a caller can keep a slice of them
// without any per-element heap allocation.
package stats

// derivativeState tracks whether a previous sample has been recorded
type derivativeState int

const (
	derivativeInit derivativeState = iota
	derivativeRunning
)

// Derivative emits the difference between consecutive samples.
type Derivative struct {
	state derivativeState
	last  float64
}

// Add records a sample and returns the difference to the previous one.
// The second return value is false for the first sample after a reset,
// when there is nothing to differentiate against yet.
func (d *Derivative) Add(sample float64) (float64, bool) {
	switch d.state {
	case derivativeInit:
		d.last = sample
		d.state = derivativeRunning
		return 0, false
	default:
		delta := sample - d.last
		d.last = sample
		return delta, true
	}
}

// Running reports whether a previous sample has been recorded
func (d *Derivative) Running() bool {
	return d.state == derivativeRunning
}

// Reset forgets the previous sample
func (d *Derivative) Reset() {
	d.state = derivativeInit
	d.last = 0
}
