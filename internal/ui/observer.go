package ui

import (
	"github.com/0xlemi/tunescope/internal/pitch"
)

// Observer collects the tones of each step, classifies their harmonics and
// hands the finished frame to send, typically tea.Program.Send
type Observer struct {
	harmonics *pitch.HarmonicClassifier
	tones     []Tone
	send      func(FrameMsg)
}

// NewObserver creates an observer classifying harmonics within tolerance dB
func NewObserver(tolerance float64, send func(FrameMsg)) *Observer {
	return &Observer{
		harmonics: pitch.NewHarmonicClassifier(tolerance),
		send:      send,
	}
}

// Start begins a new frame
func (o *Observer) Start() {
	o.harmonics.Reset()
	o.tones = o.tones[:0]
}

// Add classifies one tone
func (o *Observer) Add(frequency, magnitude float64) {
	o.tones = append(o.tones, Tone{
		Frequency: frequency,
		Magnitude: magnitude,
		Harmonic:  o.harmonics.Classify(frequency),
		Note:      pitch.FrequencyToNote(frequency),
	})
}

// End sends a copy of the frame, the receiver may keep it
func (o *Observer) End() {
	tones := make([]Tone, len(o.tones))
	copy(tones, o.tones)
	o.send(FrameMsg{Tones: tones})
}
