package pitch

import "math"

// DefaultHarmonicTolerance is the log-ratio error, in dB, below which a
// frequency counts as a harmonic
const DefaultHarmonicTolerance = -9.0

// HarmonicClassifier groups the tones of one frame into harmonic series.
//
// Frequencies are classified in the order they arrive. Each one is compared
// against the fundamentals recorded so far in the frame; the first whose
// integer ratio fits within the tolerance claims it, otherwise it becomes a
// new fundamental.
type HarmonicClassifier struct {
	tolerance    float64
	fundamentals []float64
}

// NewHarmonicClassifier creates a classifier with tolerance in dB (negative,
// more negative is stricter)
func NewHarmonicClassifier(tolerance float64) *HarmonicClassifier {
	return &HarmonicClassifier{
		tolerance:    tolerance,
		fundamentals: make([]float64, 0, 8),
	}
}

// Tolerance returns the harmonic tolerance in dB
func (h *HarmonicClassifier) Tolerance() float64 {
	return h.tolerance
}

// Reset starts a new frame
func (h *HarmonicClassifier) Reset() {
	h.fundamentals = h.fundamentals[:0]
}

// Classify returns the harmonic index of freq: 0 for a fundamental, k-1 for
// the k-th multiple of an earlier fundamental
func (h *HarmonicClassifier) Classify(freq float64) int {
	for _, fundamental := range h.fundamentals {
		ratio := freq / fundamental
		k := math.Round(ratio)
		if k < 1 {
			continue
		}

		// 10·log10(0) is -Inf, so exact multiples always match
		if 10*math.Log10(math.Abs(ratio-k)) < h.tolerance {
			return int(k) - 1
		}
	}

	h.fundamentals = append(h.fundamentals, freq)
	return 0
}

// Fundamentals returns the fundamentals recorded in the current frame
func (h *HarmonicClassifier) Fundamentals() []float64 {
	return h.fundamentals
}
