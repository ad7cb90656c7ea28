package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/0xlemi/tunescope/internal/stats"
)

// Errors
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// TransformInitError reports a transform plan that could not be prepared
type TransformInitError struct {
	Size int
	Err  error
}

func (e *TransformInitError) Error() string {
	return fmt.Sprintf("prepare transform plan for %d samples: %v", e.Size, e.Err)
}

func (e *TransformInitError) Unwrap() error {
	return e.Err
}

// Settings are the parameters of one analysis session.
//
// Magnitudes are normalized by the buffer size and compared on a 10·log10
// scale, so a full-scale sinusoid sitting exactly on a bin reads about -3 dB
// regardless of BufferSize.
type Settings struct {
	SampleRate      int     // Hz
	BufferSize      int     // samples per transform
	CaptureSize     int     // fresh samples per step
	MagnitudeCutoff float64 // dB, bins below are ignored
	BindCutoff      float64 // dB, neighbors within this of a peak are bound to it
	AverageLength   int     // phase differences averaged per bin
}

// DefaultSettings returns the settings the tuner ships with
func DefaultSettings() Settings {
	return Settings{
		SampleRate:      48000,
		BufferSize:      2048,
		CaptureSize:     512,
		MagnitudeCutoff: -30,
		BindCutoff:      -2,
		AverageLength:   stats.DefaultAverageLength,
	}
}

// Validate checks the constraints the analyser relies on
func (s Settings) Validate() error {
	switch {
	case s.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d must be positive", ErrInvalidConfiguration, s.SampleRate)
	case s.BufferSize <= 0:
		return fmt.Errorf("%w: buffer size %d must be positive", ErrInvalidConfiguration, s.BufferSize)
	case s.CaptureSize <= 0:
		return fmt.Errorf("%w: capture size %d must be positive", ErrInvalidConfiguration, s.CaptureSize)
	case s.CaptureSize > s.BufferSize:
		return fmt.Errorf("%w: capture size %d exceeds buffer size %d", ErrInvalidConfiguration, s.CaptureSize, s.BufferSize)
	case s.BinCount() < 2:
		return fmt.Errorf("%w: buffer size %d leaves fewer than two usable bins", ErrInvalidConfiguration, s.BufferSize)
	case math.IsNaN(s.MagnitudeCutoff) || math.IsNaN(s.BindCutoff):
		return fmt.Errorf("%w: cutoffs must be numbers", ErrInvalidConfiguration)
	}
	return nil
}

// BinCount returns the number of analysed bins, excluding DC and Nyquist
func (s Settings) BinCount() int {
	return (s.BufferSize - 1) / 2
}

// BinWidth returns the spacing between bins in Hz
func (s Settings) BinWidth() float64 {
	return float64(s.SampleRate) / float64(s.BufferSize)
}

// StepAdvance returns the phase, in radians, a tone sitting exactly on bin 1
// advances by between two steps
func (s Settings) StepAdvance() float64 {
	return 2 * math.Pi * float64(s.CaptureSize) / float64(s.BufferSize)
}

// DBToMagnitude converts a 10·log10 level into a linear magnitude
func DBToMagnitude(db float64) float64 {
	return math.Pow(10, db/10)
}

// MagnitudeToDB converts a linear magnitude into a 10·log10 level
func MagnitudeToDB(mag float64) float64 {
	return 10 * math.Log10(mag)
}
