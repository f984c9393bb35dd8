// Package validate_test exercises the score validator against
// hand-built scores with known, localized defects.
package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
	"github.com/cantoria/cantoria/validate"
)

// fixture builds a minimal valid one-measure melody-stage score in C:
// four quarter notes on "go go go go".
func fixture(t *testing.T) *score.CanonicalScore {
	t.Helper()

	sylls := lyrics.Tokenize("sec-1", "go go go go")
	require.Len(t, sylls, 4)

	notes := make([]score.Note, 0, 4)
	for i, syl := range sylls {
		n := score.NewNote([]string{"C5", "E5", "G5", "E5"}[i], 1, "sec-1")
		n, err := n.WithLyric(syl.Text, syl.ID, i, score.ModeSingle)
		require.NoError(t, err)
		notes = append(notes, n)
	}

	ts, err := score.ParseTimeSignature("4/4")
	require.NoError(t, err)

	scale, err := theory.ParseKey("C", "")
	require.NoError(t, err)

	voices := map[theory.Voice][]score.Note{theory.Soprano: notes}

	return &score.CanonicalScore{
		Meta: score.Meta{Key: "C", Time: ts, TempoBPM: 90, Stage: score.StageMelody},
		Sections: []score.Section{{
			ID: "sec-1", Label: "verse", Text: "go go go go", Syllables: sylls,
		}},
		Measures: score.PackMeasures(voices, ts, nil),
		ChordProgression: []score.Chord{{
			MeasureNumber: 1,
			SectionID:     "sec-1",
			Symbol:        theory.ChordSymbol(scale, 1),
			Degree:        1,
			PitchClasses:  theory.TriadPitchClasses(scale, 1),
		}},
	}
}

func TestValidateScore_CleanFixture(t *testing.T) {
	rep := validate.ValidateScore(fixture(t))
	require.True(t, rep.OK(), rep.String())
	require.Empty(t, rep.Errors())
}

func TestValidateScore_MeasureTiming(t *testing.T) {
	sc := fixture(t)
	sc.Measures[0].Voices[theory.Soprano][3].Beats = 0.5

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleMeasureTiming), rep.String())
}

func TestValidateScore_MissingChord(t *testing.T) {
	sc := fixture(t)
	sc.ChordProgression = nil

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleChordCoverage))
}

func TestValidateScore_NonDiatonicChord(t *testing.T) {
	sc := fixture(t)
	sc.ChordProgression[0].PitchClasses = [3]int{1, 5, 8}

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleChordDiatonic))
}

func TestValidateScore_LyricCoverage(t *testing.T) {
	dropped := fixture(t)
	n := &dropped.Measures[0].Voices[theory.Soprano][2]
	n.Lyric, n.SyllableID, n.Mode = "", "", score.ModeNone

	rep := validate.ValidateScore(dropped)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleLyricCoverage))

	duplicated := fixture(t)
	d := &duplicated.Measures[0].Voices[theory.Soprano][2]
	d.SyllableID = duplicated.Measures[0].Voices[theory.Soprano][1].SyllableID

	rep = validate.ValidateScore(duplicated)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleLyricCoverage))
}

func TestValidateScore_OrphanContinuation(t *testing.T) {
	sc := fixture(t)
	n := &sc.Measures[0].Voices[theory.Soprano][0]
	n.Lyric = ""
	n.Mode = score.ModeTieContinue

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleLyricOrphan), rep.String())
}

func TestValidateScore_RangeAndLeap(t *testing.T) {
	sc := fixture(t)
	sc.Measures[0].Voices[theory.Soprano][0].Pitch = "C3" // far below soprano floor

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	assert.True(t, rep.Has(validate.RuleVoiceRange))
	assert.True(t, rep.Has(validate.RuleMelodicLeap))
}

func TestValidateScore_StrongBeatWarning(t *testing.T) {
	sc := fixture(t)
	// B4 is diatonic but outside the C major triad; beat 1 is strong.
	sc.Measures[0].Voices[theory.Soprano][0].Pitch = "B4"

	rep := validate.ValidateScore(sc)
	require.True(t, rep.OK(), "strong-beat conformance is a warning, not an error")
	require.True(t, rep.Has(validate.RuleStrongBeat))
}

func satbFixture(t *testing.T) *score.CanonicalScore {
	t.Helper()
	sc := fixture(t)
	sc.Meta.Stage = score.StageSATB

	m := &sc.Measures[0]
	build := func(pitches [4]string) []score.Note {
		out := make([]score.Note, 4)
		for i, p := range pitches {
			out[i] = score.NewNote(p, 1, "sec-1")
		}

		return out
	}
	m.Voices[theory.Alto] = build([4]string{"G4", "G4", "B4", "G4"})
	m.Voices[theory.Tenor] = build([4]string{"E4", "C4", "E4", "C4"})
	m.Voices[theory.Bass] = build([4]string{"C3", "C3", "G3", "C3"})

	return sc
}

func TestValidateScore_SATBOrderingAndSpacing(t *testing.T) {
	rep := validate.ValidateScore(satbFixture(t))
	require.Empty(t, rep.Errors(), rep.String())

	crossed := satbFixture(t)
	crossed.Measures[0].Voices[theory.Alto][0].Pitch = "C6"
	rep = validate.ValidateScore(crossed)
	require.True(t, rep.Has(validate.RuleVoiceOrder), rep.String())

	gapped := satbFixture(t)
	// Soprano C5 over alto B3: a thirteenth between soprano and alto.
	gapped.Measures[0].Voices[theory.Alto][0].Pitch = "B3"
	gapped.Measures[0].Voices[theory.Tenor][0].Pitch = "G3"
	rep = validate.ValidateScore(gapped)
	require.True(t, rep.Has(validate.RuleVoiceSpacing), rep.String())
}

func TestValidateScore_ParallelOctaveWarning(t *testing.T) {
	sc := satbFixture(t)
	m := &sc.Measures[0]
	// Soprano C5→E5 with alto C4→E4: parallel octaves on the first step.
	m.Voices[theory.Soprano][0].Pitch = "C5"
	m.Voices[theory.Soprano][1].Pitch = "E5"
	m.Voices[theory.Alto][0].Pitch = "C4"
	m.Voices[theory.Alto][1].Pitch = "E4"
	m.Voices[theory.Tenor][0].Pitch = "G3"
	m.Voices[theory.Tenor][1].Pitch = "C4"
	m.Voices[theory.Bass][0].Pitch = "C3"
	m.Voices[theory.Bass][1].Pitch = "C3"

	rep := validate.ValidateScore(sc)
	require.True(t, rep.Has(validate.RuleParallelMotion), rep.String())
}

func TestValidateScore_ParallelFifthBetweenLowerVoices(t *testing.T) {
	sc := satbFixture(t)
	m := &sc.Measures[0]
	// Tenor G3→A3 over bass C3→D3 move in parallel fifths while both
	// upper voices hold still.
	m.Voices[theory.Soprano][0].Pitch = "C5"
	m.Voices[theory.Soprano][1].Pitch = "C5"
	m.Voices[theory.Alto][0].Pitch = "G4"
	m.Voices[theory.Alto][1].Pitch = "G4"
	m.Voices[theory.Tenor][0].Pitch = "G3"
	m.Voices[theory.Tenor][1].Pitch = "A3"
	m.Voices[theory.Bass][0].Pitch = "C3"
	m.Voices[theory.Bass][1].Pitch = "D3"

	rep := validate.ValidateScore(sc)
	require.True(t, rep.Has(validate.RuleParallelMotion), rep.String())
}

func TestValidateScore_BadKey(t *testing.T) {
	sc := fixture(t)
	sc.Meta.Key = "Z#"

	rep := validate.ValidateScore(sc)
	require.False(t, rep.OK())
	require.True(t, rep.Has(validate.RuleKeySignature))
}

func TestReport_Accessors(t *testing.T) {
	var r validate.Report
	require.True(t, r.OK())
	require.Equal(t, "validate: score OK", r.String())

	r.Issues = []validate.Issue{
		{Severity: validate.SeverityWarning, Rule: validate.RuleTessitura, Message: "w"},
		{Severity: validate.SeverityError, Rule: validate.RuleMeasureTiming, Message: "e", Measure: 2},
	}
	require.False(t, r.OK())
	require.Len(t, r.Errors(), 1)
	require.Len(t, r.Warnings(), 1)
	require.Contains(t, r.String(), "2 issue(s)")
}
