package stats

import "math"

// Chain is the derivative → periodic → moving average pipeline.
//
// Raw samples are differentiated, each difference is wrapped by the period and
// the wrapped differences are averaged. The chain is ready once two raw
// samples have been added since the last reset.
type Chain struct {
	derivative Derivative
	periodic   Periodic
	average    MovingAverage
}

// NewChain creates a pipeline wrapping by period and averaging over limit
// differences
func NewChain(period float64, limit int) Chain {
	return Chain{
		periodic: NewPeriodic(period),
		average:  NewMovingAverage(limit),
	}
}

// NewAngleChain creates a pipeline for phase angles in radians
func NewAngleChain(limit int) Chain {
	return NewChain(2*math.Pi, limit)
}

// Add feeds a raw sample through all three stages
func (c *Chain) Add(sample float64) {
	delta, ok := c.derivative.Add(sample)
	if !ok {
		return
	}
	c.average.Add(c.periodic.Wrap(delta))
}

// Ready reports whether Result carries an estimate
func (c *Chain) Ready() bool {
	return c.average.Ready()
}

// Result returns the averaged wrapped difference
func (c *Chain) Result() float64 {
	return c.average.Result()
}

// Variance returns the spread of the averaged differences
func (c *Chain) Variance() float64 {
	return c.average.Variance()
}

// Samples returns how many differences are being averaged
func (c *Chain) Samples() int {
	return c.average.Len()
}

// Period returns the wrap period
func (c *Chain) Period() float64 {
	return c.periodic.Period
}

// Reset returns every stage to its initial state
func (c *Chain) Reset() {
	c.derivative.Reset()
	c.average.Reset()
}
