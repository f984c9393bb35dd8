// Package rhythm_test covers preset resolution, archetype folding, and
// the deterministic rhythm planner's coverage and clamping behavior.
package rhythm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/score"
)

func TestArchetype(t *testing.T) {
	cases := map[string]string{
		"verse":        "verse",
		"Chorus":       "chorus",
		"chorus 2":     "chorus",
		"final-chorus": "chorus",
		"Pre-Chorus":   "pre-chorus",
		"prechorus":    "pre-chorus",
		"bridge":       "bridge",
		"intro":        "intro",
		"tag":          "custom",
		"":             "custom",
	}
	for in, want := range cases {
		require.Equal(t, want, rhythm.Archetype(in), "label %q", in)
	}
}

func TestConfigForPreset(t *testing.T) {
	syllabic, err := rhythm.ConfigForPreset(rhythm.PresetSyllabic, "verse")
	require.NoError(t, err)
	assert.InDelta(t, 0.03, syllabic.MelismaRate, 1e-9) // 0.08 - 0.05 verse pullback
	assert.InDelta(t, 1.5, syllabic.PhraseEndHoldBeats, 1e-9)

	chorus, err := rhythm.ConfigForPreset(rhythm.PresetMelismatic, "chorus")
	require.NoError(t, err)
	assert.InDelta(t, 0.50, chorus.MelismaRate, 1e-9) // 0.42 + 0.08 chorus bonus
	assert.InDelta(t, 2.0, chorus.PhraseEndHoldBeats, 1e-9)

	custom, err := rhythm.ConfigForPreset(rhythm.PresetMixed, "interlude-x")
	require.NoError(t, err)
	assert.InDelta(t, 0.22, custom.MelismaRate, 1e-9)

	_, err = rhythm.ConfigForPreset(rhythm.Preset("bogus"), "verse")
	require.ErrorIs(t, err, rhythm.ErrUnknownPreset)
}

func TestPlanSyllableRhythm_CoversEverySyllable(t *testing.T) {
	sylls := lyrics.Tokenize("sec-1", "Amazing grace how sweet the sound")
	cfg, err := rhythm.ConfigForPreset(rhythm.PresetMixed, "verse")
	require.NoError(t, err)
	cfg.Seed = "t1"

	spans, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	require.Len(t, spans, len(sylls))

	for i, sp := range spans {
		assert.Equal(t, sylls[i].ID, sp.SyllableID)
		assert.Equal(t, i, sp.LyricIndex)
		require.Len(t, sp.Modes, len(sp.Durations))
		require.NotEmpty(t, sp.Durations)
		assert.Greater(t, sp.TotalBeats(), 0.0)
		// The syllable-carrying first note is never a tie continuation.
		assert.NotEqual(t, score.ModeTieContinue, sp.Modes[0])
	}
}

func TestPlanSyllableRhythm_Determinism(t *testing.T) {
	sylls := lyrics.Tokenize("sec-1", "hal-le-lu-jah hallelujah sing it loud")
	cfg, err := rhythm.ConfigForPreset(rhythm.PresetMelismatic, "chorus")
	require.NoError(t, err)
	cfg.Seed = "choir|C|4/4|90"

	a, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	b, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	require.Equal(t, a, b)

	// A different seed is allowed to (and here does) change the plan.
	cfg.Seed = "choir|C|4/4|91"
	c, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	require.Len(t, c, len(a))
}

func TestPlanSyllableRhythm_PhraseEndHold(t *testing.T) {
	sylls := lyrics.Tokenize("s", "go home.")
	cfg := rhythm.PolicyConfig{PhraseEndHoldBeats: 2.0, Seed: "x"}

	spans, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	require.Len(t, spans, 2)

	hold := spans[1]
	require.Equal(t, []float64{1.0, 1.0}, hold.Durations)
	require.Equal(t, []score.LyricMode{score.ModeSingle, score.ModeTieContinue}, hold.Modes)
}

func TestPlanSyllableRhythm_ShortHoldStaysSingle(t *testing.T) {
	sylls := lyrics.Tokenize("s", "stay.")
	cfg := rhythm.PolicyConfig{PhraseEndHoldBeats: 1.0, Seed: "x"}

	spans, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	require.Equal(t, []float64{1.0}, spans[0].Durations)
	require.Equal(t, []score.LyricMode{score.ModeSingle}, spans[0].Modes)
}

func TestPlanSyllableRhythm_MelismaUnderHighRate(t *testing.T) {
	sylls := lyrics.Tokenize("s", "la la la la la la la la")
	cfg := rhythm.PolicyConfig{MelismaRate: 1.0, Seed: "x"} // force melisma everywhere

	spans, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)

	melismas := 0
	for _, sp := range spans {
		if len(sp.Modes) >= 2 && sp.Modes[0] == score.ModeMelisma {
			melismas++
			require.Equal(t, score.ModeMelisma, sp.Modes[1])
		}
	}
	require.Greater(t, melismas, 0)
}

func TestPlanSyllableRhythm_StressedSyllablesStartOnWholeBeats(t *testing.T) {
	sylls := lyrics.Tokenize("s", "one two three four five six seven eight nine ten")
	cfg, err := rhythm.ConfigForPreset(rhythm.PresetMelismatic, "chorus")
	require.NoError(t, err)
	cfg.Seed = "align"

	spans, err := rhythm.PlanSyllableRhythm(sylls, 4, cfg)
	require.NoError(t, err)

	pos := 0.0
	for _, sp := range spans {
		if sp.Stressed {
			frac := pos - float64(int(pos))
			require.InDelta(t, 0, frac, score.Epsilon,
				"stressed span %q starts off the beat at %.2f", sp.Text, pos)
		}
		pos += sp.TotalBeats()
	}
}

func TestPlanSyllableRhythm_BadMeter(t *testing.T) {
	_, err := rhythm.PlanSyllableRhythm(nil, 0, rhythm.PolicyConfig{})
	require.ErrorIs(t, err, rhythm.ErrBadMeter)
}
