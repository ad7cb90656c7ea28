package pitch

import (
	"math"

	"github.com/0xlemi/tunescope/internal/stats"
)

// FrequencyBin holds the refinement state of one transform bin.
//
// Each step the bin is tracked, its phase is demodulated by the advance an
// on-bin tone would show and fed into a derivative → periodic → moving
// average chain. The averaged residual, scaled back to bins, is the offset of
// the true frequency from the bin centre.
type FrequencyBin struct {
	index     int
	magnitude float64
	chain     stats.Chain
	advance   float64 // expected phase advance per step for this bin
	scale     float64 // phase advance per step of a one-bin offset
	reference float64
	hits      int
}

// NewFrequencyBin creates the state for transform index using the session's
// step geometry
func NewFrequencyBin(index int, s Settings) FrequencyBin {
	scale := s.StepAdvance()
	return FrequencyBin{
		index:   index,
		chain:   stats.NewAngleChain(s.AverageLength),
		advance: math.Remainder(float64(index)*scale, 2*math.Pi),
		scale:   scale,
	}
}

// Index returns the transform index of the bin
func (b *FrequencyBin) Index() int {
	return b.index
}

// Magnitude returns the magnitude set for the current step
func (b *FrequencyBin) Magnitude() float64 {
	return b.magnitude
}

// SetMagnitude records the magnitude for the current step
func (b *FrequencyBin) SetMagnitude(mag float64) {
	b.magnitude = mag
}

// Update feeds the bin's phase for this step
func (b *FrequencyBin) Update(phase float64) {
	b.chain.Add(phase - b.reference)
	b.reference = math.Remainder(b.reference+b.advance, 2*math.Pi)
}

// Ready reports whether Offset carries an estimate
func (b *FrequencyBin) Ready() bool {
	return b.chain.Ready()
}

// Offset returns the refined distance of the tone from the bin centre, in bins
func (b *FrequencyBin) Offset() float64 {
	return b.chain.Result() / b.scale
}

// Variance returns the spread of the per-step offsets, in bins squared
func (b *FrequencyBin) Variance() float64 {
	return b.chain.Variance() / (b.scale * b.scale)
}

// Position returns the refined position of the tone in fractional bins
func (b *FrequencyBin) Position() float64 {
	return float64(b.index) + b.Offset()
}

// MarkLocalMax counts one more step where the bin was a peak
func (b *FrequencyBin) MarkLocalMax() {
	b.hits++
}

// Hits returns how many steps the bin has been a peak since its last reset
func (b *FrequencyBin) Hits() int {
	return b.hits
}

// Reset discards all refinement history
func (b *FrequencyBin) Reset() {
	b.chain.Reset()
	b.reference = 0
	b.hits = 0
}
