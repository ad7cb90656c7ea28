package stats

import "math"

// Periodic wraps values of a periodic quantity into [-Period/2, +Period/2].
type Periodic struct {
	Period float64
}

// NewPeriodic creates a wrapper for the given period (2π for radians,
// 1.0 for values already expressed in cycles)
func NewPeriodic(period float64) Periodic {
	return Periodic{Period: period}
}

// Wrap maps value onto its representative closest to zero.
func (p Periodic) Wrap(value float64) float64 {
	if p.Period <= 0 {
		return value
	}
	return math.Remainder(value, p.Period)
}
