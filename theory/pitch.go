package theory

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPitch indicates a pitch spelling that cannot be parsed
// (expected note letter, optional accidental, octave digit, e.g. "Bb3").
var ErrBadPitch = errors.New("theory: malformed pitch")

// noteToSemitone maps spelled note names (sharp and flat) to pitch classes.
var noteToSemitone = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

// semitoneToNote is the canonical (sharp-preferring) spelling per pitch class.
var semitoneToNote = [12]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// MIDIToPitch renders a MIDI note number as canonical sharp spelling,
// e.g. 60 → "C4", 66 → "F#4". Octave numbering follows the MIDI
// convention where C4 = 60.
//
// Complexity: O(1).
func MIDIToPitch(midi int) string {
	octave := midi/12 - 1

	return fmt.Sprintf("%s%d", semitoneToNote[((midi%12)+12)%12], octave)
}

// PitchToMIDI parses a spelled pitch ("C4", "Eb3", "F#5") into its MIDI
// note number. Flat spellings are accepted on input even though output
// always prefers sharps.
//
// Returns ErrBadPitch when the note name or octave cannot be parsed.
//
// Complexity: O(1).
func PitchToMIDI(pitch string) (int, error) {
	p := strings.TrimSpace(pitch)
	if len(p) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrBadPitch, pitch)
	}

	// Split into name and octave: the octave is the trailing (possibly
	// negative) integer, the name is everything before it.
	i := len(p)
	for i > 0 && (p[i-1] >= '0' && p[i-1] <= '9') {
		i--
	}
	if i > 0 && p[i-1] == '-' {
		i--
	}
	name := p[:i]
	semitone, ok := noteToSemitone[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown note %q in %q", ErrBadPitch, name, pitch)
	}
	octave, err := strconv.Atoi(p[i:])
	if err != nil {
		return 0, fmt.Errorf("%w: bad octave in %q", ErrBadPitch, pitch)
	}

	return semitone + (octave+1)*12, nil
}

// NearestInRange folds candidate by octaves until it lands inside
// [lower, upper], clamping as a last resort when the range is narrower
// than an octave. Used as the universal hard-range fallback: a
// resolution always exists, so range enforcement is never an error.
//
// Complexity: O(octaves of deviation).
func NearestInRange(candidate, lower, upper int) int {
	for candidate < lower {
		candidate += 12
	}
	for candidate > upper {
		candidate -= 12
	}
	if candidate < lower {
		candidate = lower
	}

	return candidate
}
