package ui

import (
	"time"

	"github.com/0xlemi/tunescope/internal/pitch"
)

// Tone is one detected tone with its harmonic index within the frame
type Tone struct {
	Frequency float64
	Magnitude float64
	Harmonic  int // 0 for a fundamental
	Note      pitch.Note
}

// FrameMsg carries the tones of one analysis step
type FrameMsg struct {
	Tones []Tone
}

// LevelMsg carries the input level
type LevelMsg struct {
	RMS float64
	DB  float64
}

// ErrMsg reports the session ended with an error
type ErrMsg struct {
	Err error
}

// TickMsg represents a timer tick
type TickMsg time.Time
