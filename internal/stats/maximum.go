package stats

// Maximum tracks the largest sample seen since the last reset.
type Maximum struct {
	max   float64
	ready bool
}

// Add offers a sample
func (m *Maximum) Add(sample float64) {
	if !m.ready || sample > m.max {
		m.max = sample
		m.ready = true
	}
}

// Ready reports whether any sample has been offered
func (m *Maximum) Ready() bool {
	return m.ready
}

// Result returns the maximum so far
func (m *Maximum) Result() float64 {
	return m.max
}

// Reset forgets the maximum
func (m *Maximum) Reset() {
	m.max = 0
	m.ready = false
}
