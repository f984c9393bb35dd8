package cantoria

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/melody"
	"github.com/cantoria/cantoria/musicxml"
	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/satb"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/session"
	"github.com/cantoria/cantoria/validate"
)

// ErrInvalidRequest heads every boundary rejection; the concrete
// findings ride along as a RequestError.
var ErrInvalidRequest = errors.New("cantoria: invalid request")

// Tempo bounds accepted at the boundary, in quarter notes per minute.
const (
	MinTempoBPM = 50
	MaxTempoBPM = 220
)

// keyRe accepts tonic + optional accidental + optional minor suffix,
// e.g. "C", "F#", "Bbm".
var keyRe = regexp.MustCompile(`^[A-Ga-g][#b]?m?$`)

// FieldError locates one boundary-validation finding.
type FieldError struct {
	// Field is a dotted path into the request, e.g. "sections[2].text".
	Field string `json:"field"`

	// Reason is the human-readable rejection.
	Reason string `json:"reason"`
}

// RequestError aggregates every boundary finding of one request, so a
// single correction pass can fix them all.
type RequestError struct {
	Fields []FieldError
}

// Error renders the findings one per line.
func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v (%d field(s))", ErrInvalidRequest, len(e.Fields))
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "\n  %s: %s", f.Field, f.Reason)
	}

	return b.String()
}

// Unwrap ties the aggregate to ErrInvalidRequest for errors.Is checks.
func (e *RequestError) Unwrap() error { return ErrInvalidRequest }

// ValidateRequest checks a composition request's fields without running
// any generation. It collects every finding rather than stopping at the
// first, and returns nil when the request is acceptable.
func ValidateRequest(req melody.Request) error {
	var fields []FieldError
	add := func(field, reason string, args ...any) {
		fields = append(fields, FieldError{Field: field, Reason: fmt.Sprintf(reason, args...)})
	}

	if len(req.Sections) == 0 {
		add("sections", "at least one lyric section is required")
	}
	ids := make(map[string]bool, len(req.Sections))
	for i, sec := range req.Sections {
		path := fmt.Sprintf("sections[%d]", i)
		if strings.TrimSpace(sec.Text) == "" {
			add(path+".text", "section text is empty")
		} else if len(lyrics.Tokenize("probe", sec.Text)) == 0 {
			add(path+".text", "section text contains no singable words")
		}
		id := sec.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		if ids[id] {
			add(path+".id", "duplicate section id %q", id)
		}
		ids[id] = true
	}

	for i, item := range req.Arrangement {
		path := fmt.Sprintf("arrangement[%d]", i)
		if !ids[item.SectionID] {
			add(path+".section_id", "references unknown section %q", item.SectionID)
		}
		if item.Anacrusis.Mode == score.AnacrusisManual && item.Anacrusis.Beats <= 0 {
			add(path+".anacrusis.beats", "manual anacrusis needs a positive beat count")
		}
	}

	p := req.Preferences
	if p.Key != "" && !keyRe.MatchString(p.Key) {
		add("preferences.key", "key %q does not match tonic[#|b][m]", p.Key)
	}
	if p.TimeSignature != "" {
		if _, err := score.ParseTimeSignature(p.TimeSignature); err != nil {
			add("preferences.time_signature", "%v", err)
		}
	}
	if p.TempoBPM != 0 && (p.TempoBPM < MinTempoBPM || p.TempoBPM > MaxTempoBPM) {
		add("preferences.tempo_bpm", "tempo %d outside %d..%d", p.TempoBPM, MinTempoBPM, MaxTempoBPM)
	}
	if p.Preset != "" && !knownPreset(p.Preset) {
		add("preferences.lyric_rhythm_preset", "unknown preset %q", p.Preset)
	}

	if len(fields) > 0 {
		return &RequestError{Fields: fields}
	}

	return nil
}

func knownPreset(p rhythm.Preset) bool {
	for _, known := range rhythm.Presets() {
		if p == known {
			return true
		}
	}

	return false
}

// ComposeMelody validates the request at the boundary and generates a
// melody-stage canonical score.
func ComposeMelody(req melody.Request) (*score.CanonicalScore, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	return melody.Generate(req)
}

// Harmonize derives the four-part arrangement from a melody draft.
func Harmonize(sc *score.CanonicalScore) (*score.CanonicalScore, satb.Notes, error) {
	return satb.Harmonize(sc)
}

// RefineMelody adjusts or partially regenerates a melody draft; see
// melody.Refine for the instruction and scoping contract.
func RefineMelody(sc *score.CanonicalScore, instruction string, regenerate bool, selectedUnits []string, sectionClusters map[int]string) (*score.CanonicalScore, error) {
	return melody.Refine(sc, instruction, regenerate, selectedUnits, sectionClusters)
}

// RefineHarmony adjusts a harmonized draft by refining its projected
// soprano and re-harmonizing.
func RefineHarmony(sc *score.CanonicalScore, instruction string, regenerate bool, selectedUnits []string, sectionClusters map[int]string) (*score.CanonicalScore, satb.Notes, error) {
	return satb.RefineSATB(sc, instruction, regenerate, selectedUnits, sectionClusters)
}

// Validate runs the full invariant check over a canonical score.
func Validate(sc *score.CanonicalScore) validate.Report {
	return validate.ValidateScore(sc)
}

// ExportMusicXML renders a score as partwise MusicXML 3.1.
func ExportMusicXML(sc *score.CanonicalScore) ([]byte, error) {
	return musicxml.Export(sc)
}

// ParseSections tokenizes the request's lyric sections, keyed by their
// resolved section ids.
func ParseSections(sections []melody.SectionInput) map[string][]lyrics.Syllable {
	texts := make(map[string]string, len(sections))
	for i, sec := range sections {
		id := sec.ID
		if id == "" {
			id = fmt.Sprintf("section-%d", i+1)
		}
		texts[id] = sec.Text
	}

	return lyrics.ParseSections(texts)
}

// NewSession builds an empty draft history with default bounds.
func NewSession() *session.History {
	return session.NewHistory(session.DefaultOptions())
}
