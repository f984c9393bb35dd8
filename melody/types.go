package melody

import (
	"errors"

	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/score"
)

// ErrNoSections indicates a request with no lyric sections at all.
var ErrNoSections = errors.New("melody: request has no sections")

// ErrUnknownSection indicates an arrangement item referencing a section
// id that was never declared.
var ErrUnknownSection = errors.New("melody: arrangement references unknown section")

// ErrEmptySection indicates a scheduled section whose text yields zero
// syllables; such sections must be rejected before generation.
var ErrEmptySection = errors.New("melody: section has no singable text")

// ErrGenerationExhausted indicates that no attempt produced a score the
// validator accepts. The operation fails closed: no score is returned.
var ErrGenerationExhausted = errors.New("melody: generation exhausted retries")

// ErrWrongStage indicates a refinement call against a score from a
// different pipeline stage.
var ErrWrongStage = errors.New("melody: operation requires a melody-stage score")

// ErrRefineInvalid indicates a refinement whose result the validator
// rejects; the input score is left untouched.
var ErrRefineInvalid = errors.New("melody: refined score failed validation")

// maxGenerationAttempts bounds the generate-validate-repair loop.
const maxGenerationAttempts = 5

// SectionInput is one declared lyric section of a composition request.
type SectionInput struct {
	// ID is the caller's identifier; empty ids resolve to "section-<n>".
	ID string `json:"id,omitempty"`

	// Label is the musical role (verse, chorus, …).
	Label string `json:"label"`

	// Title is the display name.
	Title string `json:"title,omitempty"`

	// Text is the raw lyric text.
	Text string `json:"text"`

	// Cluster overrides the progression-cluster key; empty uses Label.
	Cluster string `json:"cluster,omitempty"`

	// Verse flags per-repetition lyric variation.
	Verse bool `json:"verse,omitempty"`

	// PauseBeats is the default rest after this section when the
	// request carries no explicit arrangement.
	PauseBeats float64 `json:"pause_beats,omitempty"`
}

// Preferences carries the user-facing generation knobs. Empty fields
// fall back to style/mood-seeded defaults.
type Preferences struct {
	Key           string        `json:"key,omitempty"`
	TimeSignature string        `json:"time_signature,omitempty"`
	TempoBPM      int           `json:"tempo_bpm,omitempty"`
	Style         string        `json:"style,omitempty"`
	Mood          string        `json:"mood,omitempty"`
	PrimaryMode   string        `json:"primary_mode,omitempty"`
	Preset        rhythm.Preset `json:"lyric_rhythm_preset,omitempty"`
	Title         string        `json:"title,omitempty"`
}

// Request is the full input of Generate.
type Request struct {
	Sections    []SectionInput          `json:"sections"`
	Arrangement []score.ArrangementItem `json:"arrangement,omitempty"`
	Preferences Preferences             `json:"preferences"`
}
