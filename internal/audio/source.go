package audio

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrSourceClosed      = errors.New("audio source closed")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// Source delivers mono samples in blocking reads
type Source interface {
	// ReadFrames fills dst with the next len(dst) frames and returns how many
	// were read. A count short of len(dst) is returned together with the
	// reason when one is known.
	ReadFrames(dst []float64) (int, error)

	// SampleRate returns the rate the source delivers at
	SampleRate() int

	// Close releases the underlying device or file
	Close() error
}

// UnderflowError reports a read that returned fewer frames than requested
type UnderflowError struct {
	Expected int
	Got      int
	Err      error
}

func (e *UnderflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture underflow: expected %d frames, got %d: %v", e.Expected, e.Got, e.Err)
	}
	return fmt.Sprintf("capture underflow: expected %d frames, got %d", e.Expected, e.Got)
}

func (e *UnderflowError) Unwrap() error {
	return e.Err
}

// readExact performs one read and turns a short count into an UnderflowError
func readExact(src Source, dst []float64) error {
	n, err := src.ReadFrames(dst)
	if n < 0 {
		n = 0
	}
	if err != nil || n < len(dst) {
		return &UnderflowError{Expected: len(dst), Got: n, Err: err}
	}
	return nil
}
