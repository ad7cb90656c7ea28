package stats

// DefaultAverageLength is the window used when a non-positive length is requested
const DefaultAverageLength = 32

// MovingAverage keeps the mean of the last Limit samples.
//
// The samples live in a fixed ring allocated once; the running sum and sum of
// squares are updated incrementally so Result and Variance are O(1).
type MovingAverage struct {
	ring  []float64
	head  int
	count int
	sum   float64
	sumSq float64
}

// NewMovingAverage creates a moving average over the last limit samples
func NewMovingAverage(limit int) MovingAverage {
	if limit <= 0 {
		limit = DefaultAverageLength
	}
	return MovingAverage{ring: make([]float64, limit)}
}

// Limit returns the capacity of the window
func (m *MovingAverage) Limit() int {
	return len(m.ring)
}

// Len returns the number of samples currently averaged
func (m *MovingAverage) Len() int {
	return m.count
}

// Ready reports whether at least one sample has been added
func (m *MovingAverage) Ready() bool {
	return m.count > 0
}

// Add pushes a sample, evicting the oldest one once the window is full.
func (m *MovingAverage) Add(sample float64) {
	if len(m.ring) == 0 {
		m.ring = make([]float64, DefaultAverageLength)
	}

	if m.count == len(m.ring) {
		old := m.ring[m.head]
		m.sum -= old
		m.sumSq -= old * old
	} else {
		m.count++
	}

	m.ring[m.head] = sample
	m.sum += sample
	m.sumSq += sample * sample
	m.head = (m.head + 1) % len(m.ring)
}

// Result returns the mean of the window, or 0 when empty
func (m *MovingAverage) Result() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}

// Variance returns the population variance of the window
func (m *MovingAverage) Variance() float64 {
	if m.count == 0 {
		return 0
	}
	mean := m.Result()
	v := m.sumSq/float64(m.count) - mean*mean
	// Incremental sums can drift slightly below zero
	if v < 0 {
		return 0
	}
	return v
}

// Reset empties the window without releasing its storage
func (m *MovingAverage) Reset() {
	for i := range m.ring {
		m.ring[i] = 0
	}
	m.head = 0
	m.count = 0
	m.sum = 0
	m.sumSq = 0
}
