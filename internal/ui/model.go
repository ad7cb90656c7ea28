package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xlemi/tunescope/internal/pitch"
	"github.com/0xlemi/tunescope/internal/stats"
)

// Constants for UI behavior
const (
	// How long a note needs to be present to be considered stable
	noteStabilityThreshold = 300 * time.Millisecond

	// How long to keep displaying a stable note after the tones fade
	noteDisplayDuration = 500 * time.Millisecond

	// Notes not seen for this long are forgotten
	noteHistoryTTL = 2 * time.Second

	tickInterval = 100 * time.Millisecond

	// Bar width before the terminal reports its size
	defaultBarWidth = 41

	// Input gain steps for the +/- keys
	gainStep = 1.25
	minGain  = 0.1
	maxGain  = 64
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	fundamentalStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF0000"))

	configStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// Returns the block style of a natural note
func getNoteStyle(noteName string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(noteColors[noteName])).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(2, 4).
		MarginBottom(1)
}

// Get the next note in the scale (for sharp note colors)
func getNextNote(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}

// Info is the configuration shown in the panel
type Info struct {
	Device            string
	Transform         string
	Settings          pitch.Settings
	HarmonicTolerance float64

	// Gain is the initial input gain. SetGain applies a new one to the
	// capture device; when nil the gain keys are disabled.
	Gain    float32
	SetGain func(float32)
}

// Model represents the UI state
type Model struct {
	info Info

	tones       []Tone
	fundamental *Tone
	maximum     stats.Maximum

	stableNote     *pitch.Note
	notesHistory   map[string]time.Time // Track when we first saw each note
	stableNoteTime time.Time            // When the stable note was last confirmed

	level LevelMsg
	gain  float32
	err   error

	width int
}

// NewModel creates a new UI model
func NewModel(info Info) Model {
	return Model{
		info:         info,
		notesHistory: make(map[string]time.Time),
		level:        LevelMsg{DB: -100},
		gain:         info.Gain,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "+", "=":
			return m, m.changeGain(gainStep)
		case "-":
			return m, m.changeGain(1 / gainStep)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case TickMsg:
		now := time.Time(msg)
		for note, timestamp := range m.notesHistory {
			if now.Sub(timestamp) > noteHistoryTTL {
				delete(m.notesHistory, note)
			}
		}
		if m.stableNote != nil && now.Sub(m.stableNoteTime) > noteDisplayDuration {
			m.stableNote = nil
		}
		return m, tick()

	case FrameMsg:
		m.applyFrame(msg, time.Now())

	case LevelMsg:
		m.level = msg

	case ErrMsg:
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// changeGain scales the input gain and applies it off the UI goroutine,
// since the device is busy until its current read completes
func (m *Model) changeGain(factor float32) tea.Cmd {
	if m.info.SetGain == nil {
		return nil
	}
	m.gain = min(maxGain, max(minGain, m.gain*factor))

	gain, set := m.gain, m.info.SetGain
	return func() tea.Msg {
		set(gain)
		return nil
	}
}

// barWidth returns the inner width of the tuner bar
func (m Model) barWidth() int {
	if m.width <= 0 {
		return defaultBarWidth
	}
	return max(1, m.width-2)
}

// applyFrame replaces the tone list and refreshes the tuner state
func (m *Model) applyFrame(msg FrameMsg, now time.Time) {
	m.tones = msg.Tones
	m.fundamental = nil

	m.maximum.Reset()
	for i := range m.tones {
		t := &m.tones[i]
		m.maximum.Add(t.Magnitude)
		if t.Harmonic == 0 && (m.fundamental == nil || t.Magnitude > m.fundamental.Magnitude) {
			m.fundamental = t
		}
	}

	if m.fundamental == nil {
		return
	}

	// Note stability logic
	note := m.fundamental.Note
	label := note.Label()
	if _, exists := m.notesHistory[label]; !exists {
		m.notesHistory[label] = now
	}
	if now.Sub(m.notesHistory[label]) >= noteStabilityThreshold {
		m.stableNote = &note
		m.stableNoteTime = now
	} else if m.stableNote != nil && m.stableNote.Label() == label {
		m.stableNoteTime = now
	}
}

// Err returns the error the session ended with, if any
func (m Model) Err() error {
	return m.err
}

// renderNote draws the big note block, splitting the colors of sharps
func renderNote(n *pitch.Note) string {
	noteText := n.Label()
	if !strings.HasSuffix(n.Name, "#") {
		return getNoteStyle(n.Name).Render(noteText)
	}

	baseNote := n.Name[:1]
	half := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		PaddingTop(2).
		PaddingBottom(2)

	leftStyle := half.
		Background(lipgloss.Color(noteColors[baseNote])).
		BorderRight(false).BorderLeft(true).BorderTop(true).BorderBottom(true).
		PaddingLeft(2).
		PaddingRight(1)

	rightStyle := half.
		Background(lipgloss.Color(noteColors[getNextNote(baseNote)])).
		BorderLeft(false).BorderRight(true).BorderTop(true).BorderBottom(true).
		PaddingLeft(1).
		PaddingRight(2)

	return leftStyle.Render(baseNote) + rightStyle.Render(noteText[1:])
}

// toneLine formats one tone of the list
func toneLine(t Tone) string {
	line := fmt.Sprintf("[%d] %-10s (%10.4f Hz)", t.Harmonic, t.Note.String(), t.Frequency)
	if t.Harmonic == 0 {
		return fundamentalStyle.Render(line)
	}
	return line
}

func (m Model) renderConfig() string {
	s := m.info.Settings
	device := m.info.Device
	if device == "" {
		device = "default"
	}
	rows := []string{
		fmt.Sprintf("Device:             %s", device),
		fmt.Sprintf("Rate:               %d Hz", s.SampleRate),
		fmt.Sprintf("Buffer size:        %d", s.BufferSize),
		fmt.Sprintf("Capture size:       %d", s.CaptureSize),
		fmt.Sprintf("Magnitude cutoff:   %.1f dB", s.MagnitudeCutoff),
		fmt.Sprintf("Harmonic tolerance: %.1f dB", m.info.HarmonicTolerance),
		fmt.Sprintf("Transform:          %s", m.info.Transform),
	}
	return configStyle.Render(strings.Join(rows, "\n"))
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tunescope - Guitar Tuner"))
	b.WriteString("\n")

	if m.stableNote != nil {
		b.WriteString(renderNote(m.stableNote))
	} else {
		b.WriteString(infoStyle.Render("Listening for audio..."))
	}
	b.WriteString("\n\n")

	var live *pitch.Note
	if m.fundamental != nil {
		live = &m.fundamental.Note
	}
	b.WriteString(renderTuner(live, m.barWidth()))
	b.WriteString("\n\n")

	for _, t := range m.tones {
		b.WriteString(toneLine(t))
		b.WriteString("\n")
	}
	if len(m.tones) == 0 {
		b.WriteString(infoStyle.Render("No tones above the cutoff"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// The magnitude bar leaves room for its dB label
	magWidth := max(1, m.barWidth()-magnitudeLabelWidth-1)
	b.WriteString(renderMagnitude(m.maximum.Result(), m.maximum.Ready(), m.info.Settings.MagnitudeCutoff, magWidth))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Level: %6.1f dB (RMS %.4f)", m.level.DB, m.level.RMS)))
	if m.info.SetGain != nil {
		b.WriteString(infoStyle.Render(fmt.Sprintf("  Gain: x%.2f", m.gain)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderConfig())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.info.SetGain != nil {
		b.WriteString(infoStyle.Render("Press +/- to change the gain, q to quit"))
	} else {
		b.WriteString(infoStyle.Render("Press q to quit"))
	}

	return b.String()
}
