package pitch

import (
	"fmt"
	"math"
)

// Concert pitch reference
const (
	A4Frequency    = 440.0
	notesPerOctave = 12
	centsPerNote   = 100
)

// Note represents a musical note
type Note struct {
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz
	Cents     float64 // Cents deviation from perfect pitch (-50 to +50)
}

// String formats the note like "A4 +3.2"
func (n Note) String() string {
	return fmt.Sprintf("%s%d %+.1f", n.Name, n.Octave, n.Cents)
}

// Label returns the note name with its octave, e.g. "C#3"
func (n Note) Label() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// InTune reports whether the note is within tolerance cents of perfect pitch
func (n Note) InTune(tolerance float64) bool {
	return math.Abs(n.Cents) < tolerance
}

// All note names in chromatic order
var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteIndex returns the chromatic index of a note name, or -1
func noteIndex(name string) int {
	for i, n := range noteNames {
		if n == name {
			return i
		}
	}
	return -1
}

// FrequencyToNote converts a frequency to a musical note
func FrequencyToNote(frequency float64) Note {
	// A4 = 440Hz, calculate semitones from A4
	semitones := notesPerOctave * math.Log2(frequency/A4Frequency)

	// Round to nearest semitone
	roundedSemitones := math.Round(semitones)

	// Calculate cents deviation (difference between actual and rounded semitones)
	cents := centsPerNote * (semitones - roundedSemitones)

	// Calculate note index (0 = C, 1 = C#, etc.)
	// A4 is 9 semitones above C4, so we add 9 to the semitone count
	index := int(math.Mod(roundedSemitones+9, notesPerOctave))
	if index < 0 {
		index += notesPerOctave
	}

	// Calculate octave (A4 is in octave 4)
	octave := 4 + int(math.Floor((roundedSemitones+9)/notesPerOctave))

	return Note{
		Name:      noteNames[index],
		Octave:    octave,
		Frequency: frequency,
		Cents:     cents,
	}
}

// NoteFrequency returns the frequency of a note name and octave shifted by
// cents, or an error for an unknown name
func NoteFrequency(name string, octave int, cents float64) (float64, error) {
	index := noteIndex(name)
	if index < 0 {
		return 0, fmt.Errorf("unknown note %q", name)
	}

	// Semitones from A4, which is index 9 of octave 4
	semitones := float64((octave-4)*notesPerOctave+index-9) + cents/centsPerNote
	return A4Frequency * math.Pow(2, semitones/notesPerOctave), nil
}
