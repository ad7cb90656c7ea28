package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/tunescope/internal/pitch"
)

const (
	tunerRange    = 50.0 // cents either side of the note
	inTuneCents   = 2.0
	magnitudeSpan = 12.0 // dB above the cutoff for a full bar

	magnitudeLabelWidth = 9 // "%6.1f dB"
)

var (
	tunerGoodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	tunerBadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	tunerArrowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00"))
	magnitudeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
)

// tunerMarker locates a note's frequency between the -50 and +50 cent
// bounds of its nearest note, as a column of a bar width wide
func tunerMarker(n pitch.Note, width int) int {
	lo, err := pitch.NoteFrequency(n.Name, n.Octave, -tunerRange)
	if err != nil {
		return width / 2
	}
	hi, _ := pitch.NoteFrequency(n.Name, n.Octave, +tunerRange)

	col := int(0.5 + float64(width-1)*(n.Frequency-lo)/(hi-lo))
	return max(0, min(width-1, col))
}

// renderTuner draws the note heading and the marker bar
func renderTuner(n *pitch.Note, width int) string {
	if n == nil {
		return infoStyle.Render("[" + strings.Repeat("-", width) + "]")
	}

	style := tunerBadStyle
	if n.InTune(inTuneCents) {
		style = tunerGoodStyle
	}

	// Arrows point the way the string has to go
	heading := style.Render(n.String())
	switch {
	case n.InTune(inTuneCents):
	case n.Cents < 0:
		heading += " " + tunerArrowStyle.Render("→→→→")
	default:
		heading = tunerArrowStyle.Render("←←←←") + " " + heading
	}

	bar := []rune(strings.Repeat("-", width))
	bar[tunerMarker(*n, width)] = '|'

	return heading + "\n" + "[" + style.Render(string(bar)) + "]"
}

// magnitudeFill returns how many of width cells a magnitude fills
func magnitudeFill(mag, cutoff float64, width int) int {
	if mag <= 0 {
		return 0
	}
	frac := (pitch.MagnitudeToDB(mag) - cutoff) / magnitudeSpan
	frac = math.Max(0, math.Min(frac, 1))
	return int(float64(width) * frac)
}

// renderMagnitude draws the strongest magnitude of the frame
func renderMagnitude(mag float64, ready bool, cutoff float64, width int) string {
	fill := 0
	label := "   --- dB"
	if ready {
		fill = magnitudeFill(mag, cutoff, width)
		label = fmt.Sprintf("%6.1f dB", pitch.MagnitudeToDB(mag))
	}
	bar := strings.Repeat("*", fill) + strings.Repeat(" ", width-fill)
	return "[" + magnitudeStyle.Render(bar) + "] " + label
}
