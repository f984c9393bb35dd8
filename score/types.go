package score

import (
	"errors"
	"fmt"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/theory"
)

// ErrRestWithLyric indicates an attempt to build a rest note that
// carries lyric text; the model keeps that state unrepresentable.
var ErrRestWithLyric = errors.New("score: rest cannot carry a lyric")

// Epsilon is the beat-accounting tolerance used across the pipeline.
const Epsilon = 1e-6

// Reserved section ids for filler material.
const (
	// SectionPadding owns rests inserted to close out a bar.
	SectionPadding = "padding"

	// SectionInterlude owns the inter-section pause rests.
	SectionInterlude = "interlude"
)

// LyricMode tags how a note relates to its lyric syllable.
type LyricMode int

const (
	// ModeNone marks rests and padding; no syllable relationship.
	ModeNone LyricMode = iota

	// ModeSingle is the plain case: one syllable, one note.
	ModeSingle

	// ModeTieContinue sustains the previous syllable across a barline
	// or beat split; the note carries no new syllable and no new pitch.
	ModeTieContinue

	// ModeMelisma spreads one syllable over several moving notes; the
	// first melisma note carries the syllable text, later ones do not.
	ModeMelisma

	// ModeSubdivision squeezes one syllable into a fraction of a beat
	// group.
	ModeSubdivision
)

// String returns the serialized mode name.
func (m LyricMode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeTieContinue:
		return "tie_continue"
	case ModeMelisma:
		return "melisma"
	case ModeSubdivision:
		return "subdivision"
	default:
		return "none"
	}
}

// MarshalText serializes the mode as its snake_case name.
func (m LyricMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a snake_case mode name.
func (m *LyricMode) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*m = ModeNone
	case "single":
		*m = ModeSingle
	case "tie_continue":
		*m = ModeTieContinue
	case "melisma":
		*m = ModeMelisma
	case "subdivision":
		*m = ModeSubdivision
	default:
		return fmt.Errorf("score: unknown lyric mode %q", text)
	}

	return nil
}

// Continuation reports whether a note in this mode sustains an earlier
// syllable rather than introducing one. A melisma note is a
// continuation exactly when it carries no lyric text of its own.
func (m LyricMode) Continuation(lyric string) bool {
	if m == ModeTieContinue {
		return true
	}

	return m == ModeMelisma && lyric == ""
}

// Stage names the pipeline stage that produced a score.
type Stage string

const (
	// StageMelody is a score with only the soprano populated.
	StageMelody Stage = "melody"

	// StageSATB is a fully harmonized four-part score.
	StageSATB Stage = "satb"
)

// Note is the leaf of a voice's measure list.
type Note struct {
	// Pitch is the spelled pitch ("F#4"); empty on rests.
	Pitch string `json:"pitch,omitempty"`

	// Beats is the duration in quarter-note beats; always > 0.
	Beats float64 `json:"beats"`

	// Rest marks a silent note.
	Rest bool `json:"rest,omitempty"`

	// SectionID names the originating section instance ("sec-3"), or
	// the reserved "padding"/"interlude" ids for filler material.
	SectionID string `json:"section_id"`

	// Lyric is the syllable text sung on this note, empty on rests and
	// continuations.
	Lyric string `json:"lyric,omitempty"`

	// SyllableID references the parsed syllable this note realizes;
	// continuation notes keep the id of the syllable they sustain.
	SyllableID string `json:"syllable_id,omitempty"`

	// LyricIndex is the rhythm-plan ordinal of the syllable, -1 when
	// not applicable.
	LyricIndex int `json:"lyric_index,omitempty"`

	// Mode tags the lyric relationship; ModeNone on rests.
	Mode LyricMode `json:"lyric_mode"`
}

// NewNote builds a sounding note with no lyric attached yet; attach one
// with WithLyric. Only sounding notes may carry lyric text.
func NewNote(pitch string, beats float64, sectionID string) Note {
	return Note{Pitch: pitch, Beats: beats, SectionID: sectionID, LyricIndex: -1}
}

// NewRest builds a rest of the given length owned by sectionID.
func NewRest(beats float64, sectionID string) Note {
	return Note{Beats: beats, Rest: true, SectionID: sectionID, LyricIndex: -1, Mode: ModeNone}
}

// WithLyric attaches a syllable to the note. Returns ErrRestWithLyric
// when the note is a rest.
func (n Note) WithLyric(text, syllableID string, index int, mode LyricMode) (Note, error) {
	if n.Rest && (text != "" || syllableID != "") {
		return n, ErrRestWithLyric
	}
	n.Lyric = text
	n.SyllableID = syllableID
	n.LyricIndex = index
	n.Mode = mode

	return n, nil
}

// MIDI resolves the note's pitch; rests have no pitch.
func (n Note) MIDI() (int, error) {
	if n.Rest {
		return 0, fmt.Errorf("score: rest has no pitch")
	}

	return theory.PitchToMIDI(n.Pitch)
}

// Measure is one bar: per-voice ordered note lists plus an optional
// anacrusis pickup that shortens its capacity.
type Measure struct {
	// Number is 1-based and strictly increasing across the score.
	Number int `json:"number"`

	// Pickup is the number of beats removed from the front of this
	// measure by a declared anacrusis; 0 for full measures.
	Pickup float64 `json:"pickup,omitempty"`

	// Voices holds the four note lists, keyed by voice.
	Voices map[theory.Voice][]Note `json:"voices"`
}

// Capacity is the exact number of beats this measure must contain under ts.
func (m Measure) Capacity(ts TimeSignature) float64 {
	return ts.BeatsPerMeasure() - m.Pickup
}

// Chord is one per-measure entry of the chord progression.
type Chord struct {
	MeasureNumber int    `json:"measure_number"`
	SectionID     string `json:"section_id"`

	// Symbol is the lead-sheet spelling, e.g. "Am".
	Symbol string `json:"symbol"`

	// Degree is the diatonic scale degree 1..7.
	Degree int `json:"degree"`

	// PitchClasses are the triad's three pitch classes.
	PitchClasses [3]int `json:"pitch_classes"`
}

// Section is one lyric section instance scheduled by the arrangement.
type Section struct {
	// ID is the arranged instance id ("sec-1", "sec-2", …).
	ID string `json:"id"`

	// Label is the musical role: verse, chorus, bridge, pre-chorus,
	// intro, outro, or a custom label.
	Label string `json:"label"`

	// Verse flags sections whose text varies per repetition.
	Verse bool `json:"verse,omitempty"`

	// Text is the raw lyric text the syllables were parsed from.
	Text string `json:"text"`

	// PauseBeats is the rest inserted after this section instance.
	PauseBeats float64 `json:"pause_beats,omitempty"`

	// Syllables is the parsed, stress-marked syllable sequence.
	Syllables []lyrics.Syllable `json:"syllables"`
}

// AnacrusisMode selects how a pickup is derived for an arranged item.
type AnacrusisMode string

const (
	// AnacrusisOff disables the pickup (default).
	AnacrusisOff AnacrusisMode = "off"

	// AnacrusisAuto derives a one-beat pickup when the item's lyric
	// opens on an unstressed syllable.
	AnacrusisAuto AnacrusisMode = "auto"

	// AnacrusisManual uses the declared beat count verbatim.
	AnacrusisManual AnacrusisMode = "manual"
)

// Anacrusis is the pickup configuration of one arranged item.
type Anacrusis struct {
	Mode AnacrusisMode `json:"mode,omitempty"`

	// Beats is the pickup length for AnacrusisManual; ignored otherwise.
	Beats float64 `json:"beats,omitempty"`
}

// PhraseOverride adjusts one phrase block of an arranged item.
type PhraseOverride struct {
	// Line addresses the phrase block by its zero-based line index.
	Line int `json:"line"`

	// MustEndAtBarline forces the phrase-final syllable onto the
	// configured hold so the phrase closes exactly at a barline.
	MustEndAtBarline bool `json:"must_end_at_barline,omitempty"`

	// BreathAfter inserts a half-beat rest after the phrase.
	BreathAfter bool `json:"breath_after,omitempty"`

	// MergeWithNext joins this phrase with the following one, dropping
	// the intermediate phrase end.
	MergeWithNext bool `json:"merge_with_next,omitempty"`
}

// ArrangementItem schedules one section instance into song order.
type ArrangementItem struct {
	// SectionID references a declared input section.
	SectionID string `json:"section_id"`

	// Cluster is the progression-cluster key this instance regenerates
	// under; empty means "use the section label".
	Cluster string `json:"cluster,omitempty"`

	// PauseBeats is the rest inserted after this instance.
	PauseBeats float64 `json:"pause_beats,omitempty"`

	// Anacrusis configures the pickup for this instance.
	Anacrusis Anacrusis `json:"anacrusis,omitempty"`

	// Phrases carries explicit phrase-block overrides.
	Phrases []PhraseOverride `json:"phrases,omitempty"`
}

// Meta is the score-level header.
type Meta struct {
	// Key is tonic + optional accidental + optional minor suffix ("F#m").
	Key string `json:"key"`

	// Mode is the primary mode name ("ionian", "dorian", …); empty
	// defers to the key's major/minor marking.
	Mode string `json:"mode,omitempty"`

	// Time is the parsed time signature.
	Time TimeSignature `json:"time_signature"`

	// TempoBPM is quarter notes per minute.
	TempoBPM int `json:"tempo_bpm"`

	// Title is the display title.
	Title string `json:"title,omitempty"`

	// Style and Mood seed the preference defaults.
	Style string `json:"style,omitempty"`
	Mood  string `json:"mood,omitempty"`

	// Stage records which pipeline stage produced the score.
	Stage Stage `json:"stage"`

	// Rationale is a one-line human-readable description of how the
	// score was produced.
	Rationale string `json:"rationale,omitempty"`
}

// CanonicalScore is the single source of truth for a composed piece.
type CanonicalScore struct {
	Meta             Meta              `json:"meta"`
	Sections         []Section         `json:"sections"`
	Arrangement      []ArrangementItem `json:"arrangement,omitempty"`
	Measures         []Measure         `json:"measures"`
	ChordProgression []Chord           `json:"chord_progression"`
}

// FlattenVoice returns the voice's notes in score order.
func (sc *CanonicalScore) FlattenVoice(v theory.Voice) []Note {
	var out []Note
	for _, m := range sc.Measures {
		out = append(out, m.Voices[v]...)
	}

	return out
}

// ChordByMeasure indexes the progression by measure number; the first
// entry wins on duplicates.
func (sc *CanonicalScore) ChordByMeasure() map[int]Chord {
	out := make(map[int]Chord, len(sc.ChordProgression))
	for _, c := range sc.ChordProgression {
		if _, ok := out[c.MeasureNumber]; !ok {
			out[c.MeasureNumber] = c
		}
	}

	return out
}
