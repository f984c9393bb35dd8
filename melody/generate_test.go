// Package melody_test covers end-to-end melody generation, the
// structural invariants of its output, and the refine/regenerate
// scoping rules.
package melody_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoria/cantoria/melody"
	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
	"github.com/cantoria/cantoria/validate"
)

func simpleRequest() melody.Request {
	return melody.Request{
		Sections: []melody.SectionInput{{
			ID:    "verse-1",
			Label: "verse",
			Text:  "Amazing grace how sweet the sound",
		}},
		Preferences: melody.Preferences{
			Key:           "C",
			TimeSignature: "4/4",
			TempoBPM:      90,
			Preset:        rhythm.PresetSyllabic,
		},
	}
}

func requireTiming(t *testing.T, sc *score.CanonicalScore) {
	t.Helper()
	for _, m := range sc.Measures {
		capacity := m.Capacity(sc.Meta.Time)
		for _, v := range theory.Voices() {
			notes := m.Voices[v]
			if len(notes) == 0 {
				continue
			}
			var sum float64
			for _, n := range notes {
				sum += n.Beats
			}
			require.InDelta(t, capacity, sum, score.Epsilon,
				"measure %d voice %s", m.Number, v)
		}
	}
}

func TestGenerate_SimpleVerse(t *testing.T) {
	sc, err := melody.Generate(simpleRequest())
	require.NoError(t, err)
	require.Equal(t, score.StageMelody, sc.Meta.Stage)

	rep := validate.ValidateScore(sc)
	require.Empty(t, rep.Errors(), rep.String())
	requireTiming(t, sc)

	// Every parsed syllable lands on exactly one syllable-carrying note.
	want := make(map[string]bool)
	for _, sec := range sc.Sections {
		for _, syl := range sec.Syllables {
			want[syl.ID] = true
		}
	}
	require.NotEmpty(t, want)

	seen := make(map[string]int)
	for _, n := range sc.FlattenVoice(theory.Soprano) {
		if n.Rest || n.Mode.Continuation(n.Lyric) {
			continue
		}
		require.True(t, want[n.SyllableID], "unexpected syllable %q", n.SyllableID)
		require.NotEmpty(t, n.Lyric)
		seen[n.SyllableID]++
	}
	for id := range want {
		assert.Equal(t, 1, seen[id], "syllable %s", id)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := melody.Generate(simpleRequest())
	require.NoError(t, err)
	b, err := melody.Generate(simpleRequest())
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestGenerate_MelismaticPreset(t *testing.T) {
	req := melody.Request{
		Sections: []melody.SectionInput{{
			ID:    "chorus-1",
			Label: "chorus",
			Text:  "Hallelujah sing forever more\nLift the music higher and higher\nHallelujah sing forever more",
		}},
		Preferences: melody.Preferences{
			Key:           "G",
			TimeSignature: "4/4",
			TempoBPM:      100,
			Preset:        rhythm.PresetMelismatic,
		},
	}

	sc, err := melody.Generate(req)
	require.NoError(t, err)
	requireTiming(t, sc)

	melismas := 0
	for _, n := range sc.FlattenVoice(theory.Soprano) {
		if n.Mode == score.ModeMelisma {
			melismas++
		}
	}
	assert.Greater(t, melismas, 0, "melismatic preset produced a fully syllabic line")
}

func TestGenerate_ManualAnacrusis(t *testing.T) {
	req := melody.Request{
		Sections: []melody.SectionInput{{
			ID:    "v",
			Label: "verse",
			Text:  "the morning light is breaking over the hill",
		}},
		Arrangement: []score.ArrangementItem{{
			SectionID: "v",
			Anacrusis: score.Anacrusis{Mode: score.AnacrusisManual, Beats: 1},
		}},
		Preferences: melody.Preferences{
			Key:           "F",
			TimeSignature: "3/4",
			TempoBPM:      80,
			Preset:        rhythm.PresetMixed,
		},
	}

	sc, err := melody.Generate(req)
	require.NoError(t, err)
	require.NotEmpty(t, sc.Measures)

	first := sc.Measures[0]
	require.InDelta(t, 1, first.Pickup, score.Epsilon)
	require.InDelta(t, 2, first.Capacity(sc.Meta.Time), score.Epsilon)
	requireTiming(t, sc)
}

func TestGenerate_InputErrors(t *testing.T) {
	_, err := melody.Generate(melody.Request{})
	require.ErrorIs(t, err, melody.ErrNoSections)

	req := simpleRequest()
	req.Arrangement = []score.ArrangementItem{{SectionID: "nope"}}
	_, err = melody.Generate(req)
	require.ErrorIs(t, err, melody.ErrUnknownSection)

	req = simpleRequest()
	req.Sections[0].Text = "  \n  "
	_, err = melody.Generate(req)
	require.ErrorIs(t, err, melody.ErrEmptySection)

	req = simpleRequest()
	req.Preferences.Key = "H"
	_, err = melody.Generate(req)
	require.ErrorIs(t, err, theory.ErrBadKey)

	req = simpleRequest()
	req.Preferences.TimeSignature = "13/4"
	_, err = melody.Generate(req)
	require.ErrorIs(t, err, score.ErrBadTimeSignature)
}

func TestGenerate_DefaultsAreSeededByStyleAndMood(t *testing.T) {
	req := melody.Request{
		Sections:    []melody.SectionInput{{ID: "v", Label: "verse", Text: "sing with me tonight"}},
		Preferences: melody.Preferences{Style: "hymn", Mood: "warm"},
	}
	a, err := melody.Generate(req)
	require.NoError(t, err)
	b, err := melody.Generate(req)
	require.NoError(t, err)

	require.Equal(t, a.Meta.Key, b.Meta.Key)
	require.Equal(t, a.Meta.Time, b.Meta.Time)
	require.Equal(t, a.Meta.TempoBPM, b.Meta.TempoBPM)
	require.GreaterOrEqual(t, a.Meta.TempoBPM, 68)
	require.LessOrEqual(t, a.Meta.TempoBPM, 116)
}

func TestRefine_PreservesRhythmAndLyrics(t *testing.T) {
	sc, err := melody.Generate(simpleRequest())
	require.NoError(t, err)

	out, err := melody.Refine(sc, "make it brighter and higher", false, nil, nil)
	require.NoError(t, err)
	require.Len(t, out.Measures, len(sc.Measures))

	before := sc.FlattenVoice(theory.Soprano)
	after := out.FlattenVoice(theory.Soprano)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].Beats, after[i].Beats)
		assert.Equal(t, before[i].Lyric, after[i].Lyric)
		assert.Equal(t, before[i].SyllableID, after[i].SyllableID)
		assert.Equal(t, before[i].Mode, after[i].Mode)
		assert.Equal(t, before[i].Rest, after[i].Rest)
	}
	require.Empty(t, validate.ValidateScore(out).Errors())
}

func TestRefine_WrongStage(t *testing.T) {
	sc, err := melody.Generate(simpleRequest())
	require.NoError(t, err)
	sc.Meta.Stage = score.StageSATB

	_, err = melody.Refine(sc, "", false, nil, nil)
	require.ErrorIs(t, err, melody.ErrWrongStage)
}

func twoClusterRequest() melody.Request {
	return melody.Request{
		Sections: []melody.SectionInput{
			{ID: "v", Label: "verse", Text: "walking down the quiet road alone"},
			{ID: "c", Label: "chorus", Text: "sing out loud and strong"},
		},
		Preferences: melody.Preferences{
			Key:           "C",
			TimeSignature: "4/4",
			TempoBPM:      96,
			Preset:        rhythm.PresetMixed,
		},
	}
}

func TestRefine_RegenerateScopesToCluster(t *testing.T) {
	sc, err := melody.Generate(twoClusterRequest())
	require.NoError(t, err)
	require.Len(t, sc.Sections, 2)
	verseID := sc.Sections[0].ID

	out, err := melody.Refine(sc, "", true, []string{"chorus"}, nil)
	require.NoError(t, err)
	require.Len(t, out.Measures, len(sc.Measures))

	// Measures holding verse material stay byte-identical.
	for i, m := range sc.Measures {
		verseOwned := false
		chorusTouched := false
		for _, n := range m.Voices[theory.Soprano] {
			switch n.SectionID {
			case verseID:
				verseOwned = true
			case sc.Sections[1].ID:
				chorusTouched = true
			}
		}
		if verseOwned && !chorusTouched {
			require.Equal(t, m, out.Measures[i], "verse measure %d changed", m.Number)
		}
	}
	require.Empty(t, validate.ValidateScore(out).Errors())
}

func TestRefine_UnknownClusterIsIgnored(t *testing.T) {
	sc, err := melody.Generate(twoClusterRequest())
	require.NoError(t, err)

	out, err := melody.Refine(sc, "", true, []string{"no-such-cluster"}, nil)
	require.NoError(t, err)
	require.Equal(t, sc.Measures, out.Measures)
}

func TestRefine_RegenerateAllIsDeterministic(t *testing.T) {
	sc, err := melody.Generate(twoClusterRequest())
	require.NoError(t, err)

	a, err := melody.Refine(sc, "", true, nil, nil)
	require.NoError(t, err)
	b, err := melody.Refine(sc, "", true, nil, nil)
	require.NoError(t, err)
	require.Equal(t, a.Fingerprint(), b.Fingerprint())
}
