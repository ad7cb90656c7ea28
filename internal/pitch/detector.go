package pitch

import (
	"errors"
	"fmt"

	"github.com/0xlemi/tunescope/internal/audio"
	"github.com/0xlemi/tunescope/internal/spectrum"
)

// Observer receives the tones detected in each analysis frame
type Observer interface {
	// Start is called once per frame before any Add
	Start()

	// Add reports one detected tone
	Add(frequency, magnitude float64)

	// End is called once per frame after all Add calls
	End()
}

// Analyser is the pitch detection engine.
//
// Each Step captures fresh samples into the sliding window, transforms the
// window, refines every tracked bin and reports the resulting peaks. An
// Analyser is not safe for concurrent use; the only blocking point is the
// capture read.
type Analyser struct {
	settings Settings
	capture  *audio.CaptureBuffer
	frame    *SpectralFrame
	bins     []FrequencyBin
	selector *PeakSelector
	peaks    []Peak
}

// NewAnalyser validates settings, prepares the transform plan and takes
// ownership of source. On error the source is left open for the caller.
func NewAnalyser(source audio.Source, planner spectrum.Planner, settings Settings) (*Analyser, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: nil audio source", ErrInvalidConfiguration)
	}
	if planner == nil {
		return nil, fmt.Errorf("%w: nil transform planner", ErrInvalidConfiguration)
	}
	if rate := source.SampleRate(); rate > 0 && rate != settings.SampleRate {
		return nil, fmt.Errorf("%w: source delivers %d Hz, session expects %d Hz",
			ErrInvalidConfiguration, rate, settings.SampleRate)
	}

	capture, err := audio.NewCaptureBuffer(source, settings.BufferSize, settings.CaptureSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	frame, err := NewSpectralFrame(planner, settings.BufferSize)
	if err != nil {
		return nil, err
	}

	// We ignore DC and Nyquist frequency
	bins := make([]FrequencyBin, settings.BinCount())
	for slot := range bins {
		bins[slot] = NewFrequencyBin(slot+1, settings)
	}

	return &Analyser{
		settings: settings,
		capture:  capture,
		frame:    frame,
		bins:     bins,
		selector: NewPeakSelector(settings),
		peaks:    make([]Peak, 0, 16),
	}, nil
}

// Step runs one analysis cycle and notifies obs, which may be nil.
// A short read is returned as *audio.UnderflowError and nothing is reported.
func (a *Analyser) Step(obs Observer) error {
	if a.frame == nil {
		return errors.New("analyser closed")
	}

	if err := a.capture.Capture(); err != nil {
		return err
	}

	if err := a.frame.Compute(a.capture.Samples()); err != nil {
		return fmt.Errorf("execute transform: %w", err)
	}

	a.peaks = a.selector.Select(a.frame, a.bins, a.peaks[:0])

	if obs != nil {
		obs.Start()
		for _, p := range a.peaks {
			obs.Add(p.Frequency, p.Magnitude)
		}
		obs.End()
	}

	return nil
}

// Reset refills the whole window on the next step and forgets all
// refinement history, since the phase continuity between steps is lost
func (a *Analyser) Reset() {
	a.capture.Reset()
	for slot := range a.bins {
		a.bins[slot].Reset()
	}
	a.peaks = a.peaks[:0]
}

// Peaks returns the peaks of the last step, valid until the next step
func (a *Analyser) Peaks() []Peak {
	return a.peaks
}

// Samples returns the current sample window, valid until the next step
func (a *Analyser) Samples() []float64 {
	return a.capture.Samples()
}

// Bin returns the state of transform index, or nil when out of range
func (a *Analyser) Bin(index int) *FrequencyBin {
	if index < 1 || index > len(a.bins) {
		return nil
	}
	return &a.bins[index-1]
}

// Settings returns the session settings
func (a *Analyser) Settings() Settings {
	return a.settings
}

// Close releases the transform plan and closes the source
func (a *Analyser) Close() error {
	if a.frame == nil {
		return nil
	}
	err := errors.Join(a.frame.Close(), a.capture.Source().Close())
	a.frame = nil
	return err
}
