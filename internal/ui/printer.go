package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/tunescope/internal/pitch"
)

// FrameSeparator is written before every frame
const FrameSeparator = "----------"

// Printer is an Observer writing each frame as plain text lines.
//
// Every tone gets a line with its harmonic index, note and frequency. With a
// reference frequency set, the 10·log10 distance to it is appended, which is
// handy when feeding a known tone.
type Printer struct {
	w         io.Writer
	harmonics *pitch.HarmonicClassifier
	reference float64
	style     *lipgloss.Style
	err       error
}

// NewPrinter creates a printer. reference is in Hz, 0 disables the error column.
func NewPrinter(w io.Writer, tolerance, reference float64) *Printer {
	return &Printer{
		w:         w,
		harmonics: pitch.NewHarmonicClassifier(tolerance),
		reference: reference,
	}
}

// WithColor highlights fundamentals
func (p *Printer) WithColor() *Printer {
	p.style = &fundamentalStyle
	return p
}

// Start writes the frame separator
func (p *Printer) Start() {
	p.harmonics.Reset()
	p.printf("%s\n", FrameSeparator)
}

// Add writes one tone
func (p *Printer) Add(frequency, magnitude float64) {
	harm := p.harmonics.Classify(frequency)
	note := pitch.FrequencyToNote(frequency)

	// The index column grows with the number of digits
	width := int(math.Log2(float64(harm+1))) + 1

	var b strings.Builder
	fmt.Fprintf(&b, "[%-*d] %10s (%10.4f Hz)", width, harm, note.String(), frequency)
	if p.reference > 0 {
		fmt.Fprintf(&b, " = %10.4f dB", 10*math.Log10(math.Abs(frequency-p.reference)))
	}

	line := b.String()
	if harm == 0 && p.style != nil {
		line = p.style.Render(line)
	}
	p.printf("%s\n", line)
}

// End finishes the frame
func (p *Printer) End() {}

// Err returns the first write error
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
