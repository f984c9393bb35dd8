package rhythm

import (
	"errors"

	"github.com/cantoria/cantoria/score"
)

// ErrUnknownPreset indicates a lyric-rhythm preset outside the
// supported set.
var ErrUnknownPreset = errors.New("rhythm: unknown preset")

// ErrBadMeter indicates a non-positive beats-per-bar value.
var ErrBadMeter = errors.New("rhythm: beats per bar must be positive")

// Preset is a user-selected lyric-rhythm flavor.
type Preset string

const (
	// PresetSyllabic keeps melisma and subdivision minimal.
	PresetSyllabic Preset = "syllabic"

	// PresetMixed allows moderate extension (default).
	PresetMixed Preset = "mixed"

	// PresetMelismatic favors multi-note syllables.
	PresetMelismatic Preset = "melismatic"
)

// Presets returns the supported presets in declaration order.
func Presets() []Preset {
	return []Preset{PresetSyllabic, PresetMixed, PresetMelismatic}
}

// PolicyConfig is the resolved rhythm policy, passed functionally into
// the planner — no hidden lookup tables, no runtime mutation.
type PolicyConfig struct {
	// MelismaRate is the probability-like weight of spreading a
	// syllable over two moving notes; resolved deterministically.
	MelismaRate float64

	// SubdivisionRate is the weight of squeezing a syllable into a
	// half beat.
	SubdivisionRate float64

	// PhraseEndHoldBeats is the duration granted to phrase-final
	// syllables.
	PhraseEndHoldBeats float64

	// PreferStrongBeatForStress pulls stressed syllables onto whole
	// beats by extending the previous span.
	PreferStrongBeatForStress bool

	// Seed is the determinism anchor: identical seeds give identical
	// plans. Callers compose it from every generation-relevant input.
	Seed string
}

// Span is one syllable's rhythmic treatment: parallel Durations/Modes
// slices, one pair per note the syllable occupies.
type Span struct {
	// SyllableID and Text identify the planned syllable.
	SyllableID string
	Text       string

	// SectionID names the owning section instance.
	SectionID string

	// LyricIndex is the span ordinal within the plan.
	LyricIndex int

	// Stressed echoes the syllable's stress mark for the generator.
	Stressed bool

	// Durations are the beat lengths of each note in the span.
	Durations []float64

	// Modes classify each note; Modes[0] is the syllable-carrying note.
	Modes []score.LyricMode
}

// TotalBeats is the summed duration of the span.
func (s Span) TotalBeats() float64 {
	var sum float64
	for _, d := range s.Durations {
		sum += d
	}

	return sum
}
