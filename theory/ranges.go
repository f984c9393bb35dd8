package theory

import "fmt"

// Voice identifies one of the four SATB parts.
type Voice int

const (
	// Soprano is the melody-carrying top voice.
	Soprano Voice = iota

	// Alto is the upper inner voice.
	Alto

	// Tenor is the lower inner voice.
	Tenor

	// Bass is the foundation voice.
	Bass
)

// String returns the lower-case voice name used in serialized scores.
func (v Voice) String() string {
	switch v {
	case Soprano:
		return "soprano"
	case Alto:
		return "alto"
	case Tenor:
		return "tenor"
	case Bass:
		return "bass"
	default:
		return "unknown"
	}
}

// MarshalText serializes the voice as its lower-case name, so JSON maps
// keyed by Voice stay readable and deterministic.
func (v Voice) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses a lower-case voice name.
func (v *Voice) UnmarshalText(text []byte) error {
	switch string(text) {
	case "soprano":
		*v = Soprano
	case "alto":
		*v = Alto
	case "tenor":
		*v = Tenor
	case "bass":
		*v = Bass
	default:
		return fmt.Errorf("theory: unknown voice %q", text)
	}

	return nil
}

// Voices returns the four parts in canonical top-down order.
func Voices() [4]Voice {
	return [4]Voice{Soprano, Alto, Tenor, Bass}
}

// MaxMelodicLeap is the largest allowed interval, in semitones, between
// consecutive sounding notes of any single voice.
const MaxMelodicLeap = 7

// Range is a closed MIDI interval [Lo, Hi].
type Range struct {
	Lo, Hi int
}

// Hard vocal ranges: a voice may never sound outside these.
// Soprano C4–A5, Alto G3–D5, Tenor C3–G4, Bass E2–C4.
var hardRanges = [4]Range{
	{60, 81},
	{55, 74},
	{48, 67},
	{40, 60},
}

// Comfortable tessitura bands: generation nudges voices back toward
// these, and sustained writing a full step outside them is flagged.
var tessituras = [4]Range{
	{62, 79},
	{57, 72},
	{50, 65},
	{43, 58},
}

// HardRange returns the absolute MIDI range of a voice.
func HardRange(v Voice) Range { return hardRanges[v] }

// Tessitura returns the comfortable MIDI band of a voice.
func Tessitura(v Voice) Range { return tessituras[v] }
