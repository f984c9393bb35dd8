package theory

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadKey indicates a key string with an unknown tonic.
var ErrBadKey = errors.New("theory: unknown key tonic")

// Interval patterns (semitones above the tonic) for the two supported
// scale qualities. Modal keys collapse onto one of these two patterns.
var (
	majorPattern = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorPattern = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Triad qualities by scale degree; "" = major, "m" = minor, "dim" = diminished.
var (
	majorTriadQualities = [7]string{"", "m", "m", "", "", "m", "dim"}
	minorTriadQualities = [7]string{"m", "dim", "", "m", "m", "", ""}
)

// minorModes are the primary modes whose third is lowered; a key carrying
// one of these is treated with the minor interval pattern.
var minorModes = map[string]bool{
	"dorian":   true,
	"phrygian": true,
	"aeolian":  true,
	"locrian":  true,
}

// Scale is a diatonic scale: a tonic pitch class and a major/minor quality.
// The zero value is C major.
type Scale struct {
	// Tonic is the spelled tonic, e.g. "C", "F#", "Bb".
	Tonic string

	// Minor selects the natural-minor interval pattern.
	Minor bool
}

// Semitones returns the seven pitch classes of the scale, tonic first.
//
// Complexity: O(1), no allocations beyond the returned array.
func (s Scale) Semitones() [7]int {
	base := noteToSemitone[s.Tonic]
	pattern := majorPattern
	if s.Minor {
		pattern = minorPattern
	}

	var out [7]int
	for i, p := range pattern {
		out[i] = (base + p) % 12
	}

	return out
}

// Contains reports whether pitch class pc belongs to the scale.
func (s Scale) Contains(pc int) bool {
	for _, v := range s.Semitones() {
		if v == ((pc%12)+12)%12 {
			return true
		}
	}

	return false
}

// ParseKey interprets a key string such as "C", "F#", "Bbm" together
// with an optional primary mode ("ionian", "dorian", …). A trailing "m"
// on the key, or a minor-third mode, selects the minor pattern.
//
// Returns ErrBadKey when the tonic is not a recognized note name.
//
// Complexity: O(1).
func ParseKey(key, primaryMode string) (Scale, error) {
	cleaned := strings.TrimSpace(key)
	marksMinor := strings.HasSuffix(strings.ToLower(cleaned), "m") && len(cleaned) > 1
	tonic := cleaned
	if marksMinor {
		tonic = cleaned[:len(cleaned)-1]
	}
	tonic = canonicalTonic(tonic)

	if _, ok := noteToSemitone[tonic]; !ok {
		return Scale{}, fmt.Errorf("%w: %q", ErrBadKey, key)
	}

	mode := strings.ToLower(strings.TrimSpace(primaryMode))

	return Scale{Tonic: tonic, Minor: marksMinor || minorModes[mode]}, nil
}

// canonicalTonic normalizes case: upper-case letter, lower-case accidental.
func canonicalTonic(tonic string) string {
	t := strings.TrimSpace(tonic)
	if t == "" {
		return t
	}
	head := strings.ToUpper(t[:1])
	if len(t) == 1 {
		return head
	}

	return head + strings.ToLower(t[1:])
}
