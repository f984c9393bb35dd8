package validate

import (
	"fmt"
	"strings"
)

// Severity ranks an issue: errors make the score unacceptable,
// warnings flag taste-level defects a caller may tolerate.
type Severity string

const (
	// SeverityError marks a broken structural invariant.
	SeverityError Severity = "error"

	// SeverityWarning marks a stylistic defect.
	SeverityWarning Severity = "warning"
)

// Rule names group issues by the invariant they check.
const (
	RuleMeasureTiming  = "measure_timing"
	RuleChordCoverage  = "chord_coverage"
	RuleChordDiatonic  = "chord_diatonic"
	RuleKeySignature   = "key_signature"
	RuleLyricCoverage  = "lyric_coverage"
	RuleLyricOrphan    = "lyric_orphan"
	RuleVoiceRange     = "voice_range"
	RuleMelodicLeap    = "melodic_leap"
	RuleTessitura      = "tessitura"
	RuleStrongBeat     = "strong_beat"
	RuleVoiceAlignment = "voice_alignment"
	RuleVoiceOrder     = "voice_order"
	RuleVoiceSpacing   = "voice_spacing"
	RuleParallelMotion = "parallel_motion"
)

// Issue is one localized validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`

	// Measure is the 1-based measure number, 0 when score-global.
	Measure int `json:"measure,omitempty"`

	// Voice names the affected voice, empty when not voice-specific.
	Voice string `json:"voice,omitempty"`

	// SectionID names the affected section instance, when known.
	SectionID string `json:"section_id,omitempty"`
}

// Report is the complete result of a validation pass. Validation never
// fails fast: every issue in the score is collected.
type Report struct {
	Issues []Issue `json:"issues"`
}

// OK reports whether the score carries no error-severity issues.
// Warnings do not fail a report.
func (r Report) OK() bool {
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			return false
		}
	}

	return true
}

// Errors returns only the error-severity issues.
func (r Report) Errors() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == SeverityError {
			out = append(out, is)
		}
	}

	return out
}

// Warnings returns only the warning-severity issues.
func (r Report) Warnings() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == SeverityWarning {
			out = append(out, is)
		}
	}

	return out
}

// Has reports whether any issue of the given rule is present.
func (r Report) Has(rule string) bool {
	for _, is := range r.Issues {
		if is.Rule == rule {
			return true
		}
	}

	return false
}

// String renders a line-per-issue summary.
func (r Report) String() string {
	if len(r.Issues) == 0 {
		return "validate: score OK"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "validate: %d issue(s)\n", len(r.Issues))
	for _, is := range r.Issues {
		fmt.Fprintf(&b, "  [%s] %s", is.Severity, is.Rule)
		if is.Measure > 0 {
			fmt.Fprintf(&b, " m%d", is.Measure)
		}
		if is.Voice != "" {
			fmt.Fprintf(&b, " %s", is.Voice)
		}
		fmt.Fprintf(&b, ": %s\n", is.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (r *Report) addf(sev Severity, rule string, measure int, voice, sectionID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity:  sev,
		Rule:      rule,
		Message:   fmt.Sprintf(format, args...),
		Measure:   measure,
		Voice:     voice,
		SectionID: sectionID,
	})
}
