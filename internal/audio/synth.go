package audio

import (
	"math"
	"sync"
)

// Partial is one sinusoidal component of a synthetic tone
type Partial struct {
	Frequency float64 // Hz
	Amplitude float64 // linear, 1.0 = full scale
	Phase     float64 // radians at sample 0
}

// SynthSource generates a sum of sinusoids, useful for exercising the
// analyser without a capture device.
type SynthSource struct {
	mu         sync.Mutex
	sampleRate int
	partials   []Partial
	position   int64
}

// NewSynthSource creates a generator at sampleRate with the given partials
func NewSynthSource(sampleRate int, partials ...Partial) *SynthSource {
	return &SynthSource{
		sampleRate: sampleRate,
		partials:   append([]Partial(nil), partials...),
	}
}

// HarmonicSeries returns count partials at integer multiples of fundamental
// with amplitudes falling off as 1/k
func HarmonicSeries(fundamental float64, count int) []Partial {
	partials := make([]Partial, 0, count)
	for k := 1; k <= count; k++ {
		partials = append(partials, Partial{
			Frequency: fundamental * float64(k),
			Amplitude: 1 / float64(k),
		})
	}
	return partials
}

// SetPartials replaces the generated components; an empty set yields silence
func (s *SynthSource) SetPartials(partials ...Partial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partials = append(s.partials[:0], partials...)
}

// ReadFrames always fills dst completely
func (s *SynthSource) ReadFrames(dst []float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := float64(s.sampleRate)
	for i := range dst {
		// Phase is computed from the absolute sample index so it never drifts
		t := float64(s.position+int64(i)) / rate
		sample := 0.0
		for _, p := range s.partials {
			sample += p.Amplitude * math.Cos(2*math.Pi*p.Frequency*t+p.Phase)
		}
		dst[i] = sample
	}
	s.position += int64(len(dst))

	return len(dst), nil
}

// SampleRate returns the generator rate
func (s *SynthSource) SampleRate() int {
	return s.sampleRate
}

// Close is a no-op
func (s *SynthSource) Close() error {
	return nil
}
