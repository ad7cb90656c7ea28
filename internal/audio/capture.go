package audio

import "fmt"

// CaptureState selects what the next capture does
type CaptureState int

const (
	// CaptureFull fills the whole window
	CaptureFull CaptureState = iota
	// CaptureStep slides the window by the capture size
	CaptureStep
)

func (s CaptureState) String() string {
	switch s {
	case CaptureFull:
		return "full"
	case CaptureStep:
		return "step"
	default:
		return "unknown"
	}
}

// CaptureBuffer owns the sliding sample window.
//
// The first capture reads a full window; every following capture shifts the
// window left by the capture size and reads only that many fresh frames, so
// the transform always sees the latest bufferSize samples.
type CaptureBuffer struct {
	source      Source
	samples     []float64
	captureSize int
	state       CaptureState
}

// NewCaptureBuffer creates a window of bufferSize samples stepped by captureSize
func NewCaptureBuffer(source Source, bufferSize, captureSize int) (*CaptureBuffer, error) {
	if source == nil {
		return nil, fmt.Errorf("capture buffer: nil source")
	}
	if bufferSize <= 0 || captureSize <= 0 {
		return nil, fmt.Errorf("capture buffer: sizes must be positive (buffer %d, capture %d)", bufferSize, captureSize)
	}
	if captureSize > bufferSize {
		return nil, fmt.Errorf("capture buffer: capture size %d exceeds buffer size %d", captureSize, bufferSize)
	}

	return &CaptureBuffer{
		source:      source,
		samples:     make([]float64, bufferSize),
		captureSize: captureSize,
		state:       CaptureFull,
	}, nil
}

// Capture runs the capture routine for the current state
func (b *CaptureBuffer) Capture() error {
	switch b.state {
	case CaptureFull:
		return b.CaptureFull()
	default:
		return b.CaptureStep()
	}
}

// CaptureFull fills the entire window in one read
func (b *CaptureBuffer) CaptureFull() error {
	if err := readExact(b.source, b.samples); err != nil {
		return err
	}

	// Next time, run only a step capture
	b.state = CaptureStep
	return nil
}

// CaptureStep drops the oldest captureSize samples and reads as many new ones
// into the tail of the window
func (b *CaptureBuffer) CaptureStep() error {
	keep := len(b.samples) - b.captureSize
	copy(b.samples, b.samples[b.captureSize:])

	return readExact(b.source, b.samples[keep:])
}

// Reset forces the next capture to refill the whole window
func (b *CaptureBuffer) Reset() {
	b.state = CaptureFull
}

// State returns the current capture state
func (b *CaptureBuffer) State() CaptureState {
	return b.state
}

// Samples returns the window. The slice is owned by the buffer and is only
// valid until the next capture.
func (b *CaptureBuffer) Samples() []float64 {
	return b.samples
}

// BufferSize returns the window length
func (b *CaptureBuffer) BufferSize() int {
	return len(b.samples)
}

// CaptureSize returns the step length
func (b *CaptureBuffer) CaptureSize() int {
	return b.captureSize
}

// Source returns the source the buffer reads from
func (b *CaptureBuffer) Source() Source {
	return b.source
}
