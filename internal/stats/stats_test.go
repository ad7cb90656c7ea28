package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivative(t *testing.T) {
	var d Derivative

	_, ok := d.Add(3)
	assert.False(t, ok, "first sample has nothing to differentiate against")
	assert.True(t, d.Running())

	delta, ok := d.Add(5.5)
	require.True(t, ok)
	assert.InDelta(t, 2.5, delta, 1e-12)

	delta, ok = d.Add(1)
	require.True(t, ok)
	assert.InDelta(t, -4.5, delta, 1e-12)

	d.Reset()
	assert.False(t, d.Running())
	_, ok = d.Add(10)
	assert.False(t, ok)
}

func TestPeriodicWrap(t *testing.T) {
	angles := NewPeriodic(2 * math.Pi)
	cycles := NewPeriodic(1)

	tests := []struct {
		name     string
		periodic Periodic
		in       float64
		want     float64
	}{
		{"zero", angles, 0, 0},
		{"inside", angles, 1, 1},
		{"just past pi", angles, math.Pi + 0.25, -math.Pi + 0.25},
		{"full turn", angles, 2 * math.Pi, 0},
		{"negative turn and a bit", angles, -2*math.Pi - 0.5, -0.5},
		{"cycles", cycles, 0.75, -0.25},
		{"cycles negative", cycles, -1.2, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.periodic.Wrap(tt.in)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.LessOrEqual(t, math.Abs(got), tt.periodic.Period/2+1e-12)
		})
	}

	assert.Equal(t, 7.0, Periodic{}.Wrap(7), "zero period passes values through")
}

func TestMovingAverage(t *testing.T) {
	m := NewMovingAverage(3)
	assert.Equal(t, 3, m.Limit())
	assert.False(t, m.Ready())
	assert.Zero(t, m.Result())

	m.Add(1)
	assert.True(t, m.Ready())
	assert.InDelta(t, 1, m.Result(), 1e-12)

	m.Add(2)
	m.Add(3)
	assert.InDelta(t, 2, m.Result(), 1e-12)
	assert.InDelta(t, 2.0/3.0, m.Variance(), 1e-12)

	// Oldest sample (1) is evicted
	m.Add(10)
	assert.Equal(t, 3, m.Len())
	assert.InDelta(t, 5, m.Result(), 1e-12)

	m.Reset()
	assert.False(t, m.Ready())
	assert.Zero(t, m.Len())
	assert.Zero(t, m.Variance())
}

func TestMovingAverageDefaultLimit(t *testing.T) {
	m := NewMovingAverage(0)
	assert.Equal(t, DefaultAverageLength, m.Limit())

	var zero MovingAverage
	zero.Add(4)
	assert.Equal(t, DefaultAverageLength, zero.Limit())
	assert.InDelta(t, 4, zero.Result(), 1e-12)
}

func TestMaximum(t *testing.T) {
	var m Maximum
	assert.False(t, m.Ready())

	m.Add(-3)
	assert.True(t, m.Ready())
	assert.Equal(t, -3.0, m.Result())

	m.Add(-5)
	m.Add(2)
	m.Add(1)
	assert.Equal(t, 2.0, m.Result())

	m.Reset()
	assert.False(t, m.Ready())
}

func TestChainReadiness(t *testing.T) {
	c := NewAngleChain(8)
	assert.False(t, c.Ready())

	c.Add(0.1)
	assert.False(t, c.Ready(), "one raw sample is not enough")

	c.Add(0.3)
	assert.True(t, c.Ready())
	assert.InDelta(t, 0.2, c.Result(), 1e-12)

	c.Reset()
	assert.False(t, c.Ready())
	c.Add(1)
	assert.False(t, c.Ready())
	c.Add(1.5)
	assert.True(t, c.Ready())
	assert.Equal(t, 1, c.Samples())
}

func TestChainWrapsAcrossBoundary(t *testing.T) {
	c := NewAngleChain(16)

	// A phase advancing by 0.4 rad per step, observed through atan2
	phase := 2.9
	for i := 0; i < 10; i++ {
		c.Add(math.Atan2(math.Sin(phase), math.Cos(phase)))
		phase += 0.4
	}

	require.True(t, c.Ready())
	assert.InDelta(t, 0.4, c.Result(), 1e-9)
	assert.InDelta(t, 0, c.Variance(), 1e-9)
	assert.InDelta(t, 2*math.Pi, c.Period(), 1e-12)
}
