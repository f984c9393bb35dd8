// Package score_test exercises time-signature parsing, measure packing
// (barline splits, pickups, padding) and score cloning/fingerprinting.
package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

func mustTS(t *testing.T, s string) score.TimeSignature {
	t.Helper()
	ts, err := score.ParseTimeSignature(s)
	require.NoError(t, err)

	return ts
}

func voiceBeats(m score.Measure, v theory.Voice) float64 {
	var sum float64
	for _, n := range m.Voices[v] {
		sum += n.Beats
	}

	return sum
}

func TestParseTimeSignature(t *testing.T) {
	cases := []struct {
		in   string
		num  int
		den  int
		bpm  float64
		fail bool
	}{
		{in: "4/4", num: 4, den: 4, bpm: 4},
		{in: "3/4", num: 3, den: 4, bpm: 3},
		{in: "6/8", num: 6, den: 8, bpm: 3},
		{in: "2/2", num: 2, den: 2, bpm: 4},
		{in: "12/8", num: 12, den: 8, bpm: 6},
		{in: "4-4", fail: true},
		{in: "0/4", fail: true},
		{in: "13/4", fail: true},
		{in: "4/3", fail: true},
		{in: "x/4", fail: true},
	}
	for _, tc := range cases {
		ts, err := score.ParseTimeSignature(tc.in)
		if tc.fail {
			require.ErrorIs(t, err, score.ErrBadTimeSignature, "input %q", tc.in)

			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.num, ts.Numerator)
		assert.Equal(t, tc.den, ts.Denominator)
		assert.InDelta(t, tc.bpm, ts.BeatsPerMeasure(), 1e-12)
		assert.Equal(t, tc.in, ts.String())
	}
}

func TestIsStrongBeat(t *testing.T) {
	ff := mustTS(t, "4/4")
	require.True(t, ff.IsStrongBeat(0))
	require.False(t, ff.IsStrongBeat(1))
	require.True(t, ff.IsStrongBeat(2))
	require.False(t, ff.IsStrongBeat(3.5))

	sixEight := mustTS(t, "6/8")
	require.True(t, sixEight.IsStrongBeat(0))
	require.True(t, sixEight.IsStrongBeat(1.5))
	require.False(t, sixEight.IsStrongBeat(0.5))

	threeFour := mustTS(t, "3/4")
	require.True(t, threeFour.IsStrongBeat(0))
	require.True(t, threeFour.IsStrongBeat(1))
	require.True(t, threeFour.IsStrongBeat(2))
	require.False(t, threeFour.IsStrongBeat(1.5))
}

func TestNoteConstruction(t *testing.T) {
	n := score.NewNote("C4", 1, "sec-1")
	n, err := n.WithLyric("ly", "sec-1-syl-0", 0, score.ModeSingle)
	require.NoError(t, err)
	assert.Equal(t, "ly", n.Lyric)
	assert.Equal(t, score.ModeSingle, n.Mode)

	midi, err := n.MIDI()
	require.NoError(t, err)
	assert.Equal(t, 60, midi)

	r := score.NewRest(2, "padding")
	_, err = r.WithLyric("x", "id", 0, score.ModeSingle)
	require.ErrorIs(t, err, score.ErrRestWithLyric)
	_, err = r.MIDI()
	require.Error(t, err)
}

func TestLyricModeContinuation(t *testing.T) {
	require.True(t, score.ModeTieContinue.Continuation(""))
	require.True(t, score.ModeMelisma.Continuation(""))
	require.False(t, score.ModeMelisma.Continuation("la"))
	require.False(t, score.ModeSingle.Continuation(""))
}

func TestPackMeasures_ExactFill(t *testing.T) {
	ts := mustTS(t, "4/4")
	var notes []score.Note
	for i := 0; i < 8; i++ {
		notes = append(notes, score.NewNote("C4", 1, "sec-1"))
	}

	measures := score.PackMeasures(map[theory.Voice][]score.Note{theory.Soprano: notes}, ts, nil)

	require.Len(t, measures, 2)
	for _, m := range measures {
		require.Len(t, m.Voices[theory.Soprano], 4)
		require.InDelta(t, 4, voiceBeats(m, theory.Soprano), score.Epsilon)
		// Empty voices are padded with one full-measure rest.
		for _, v := range []theory.Voice{theory.Alto, theory.Tenor, theory.Bass} {
			require.Len(t, m.Voices[v], 1)
			require.True(t, m.Voices[v][0].Rest)
			require.InDelta(t, 4, voiceBeats(m, v), score.Epsilon)
		}
	}
	require.Equal(t, 1, measures[0].Number)
	require.Equal(t, 2, measures[1].Number)
}

func TestPackMeasures_SplitsAtBarline(t *testing.T) {
	ts := mustTS(t, "4/4")
	long, err := score.NewNote("G4", 3, "sec-1").WithLyric("hold", "sec-1-syl-1", 1, score.ModeSingle)
	require.NoError(t, err)
	notes := []score.Note{
		score.NewNote("C4", 3, "sec-1"),
		long, // crosses the barline: 1 beat in m1, 2 beats in m2
	}

	measures := score.PackMeasures(map[theory.Voice][]score.Note{theory.Soprano: notes}, ts, nil)

	require.Len(t, measures, 2)
	m1 := measures[0].Voices[theory.Soprano]
	m2 := measures[1].Voices[theory.Soprano]

	require.Len(t, m1, 2)
	assert.InDelta(t, 1, m1[1].Beats, score.Epsilon)
	assert.Equal(t, "hold", m1[1].Lyric)
	assert.Equal(t, score.ModeSingle, m1[1].Mode)

	// Carried chunk: same syllable id, no lyric, tie continuation.
	require.NotEmpty(t, m2)
	assert.InDelta(t, 2, m2[0].Beats, score.Epsilon)
	assert.Empty(t, m2[0].Lyric)
	assert.Equal(t, "sec-1-syl-1", m2[0].SyllableID)
	assert.Equal(t, score.ModeTieContinue, m2[0].Mode)

	// Trailing room padded with a rest.
	last := m2[len(m2)-1]
	assert.True(t, last.Rest)
	assert.InDelta(t, 4, voiceBeats(measures[1], theory.Soprano), score.Epsilon)
}

func TestPackMeasures_PickupShortensFirstMeasure(t *testing.T) {
	ts := mustTS(t, "3/4")
	notes := []score.Note{
		score.NewNote("E4", 1, "sec-1"),
		score.NewNote("F4", 1, "sec-1"),
		score.NewNote("G4", 3, "sec-1"),
	}
	pickups := map[int]float64{1: 1} // anacrusis: first measure holds 2 of 3 beats

	measures := score.PackMeasures(map[theory.Voice][]score.Note{theory.Soprano: notes}, ts, pickups)

	require.Len(t, measures, 2)
	assert.InDelta(t, 1, measures[0].Pickup, score.Epsilon)
	assert.InDelta(t, 2, measures[0].Capacity(ts), score.Epsilon)
	assert.InDelta(t, 2, voiceBeats(measures[0], theory.Soprano), score.Epsilon)
	assert.InDelta(t, 3, voiceBeats(measures[1], theory.Soprano), score.Epsilon)
}

func TestNormalize_RestoresBarlines(t *testing.T) {
	ts := mustTS(t, "4/4")
	notes := []score.Note{score.NewNote("C4", 4, "sec-1"), score.NewNote("D4", 4, "sec-1")}
	sc := &score.CanonicalScore{
		Meta:     score.Meta{Key: "C", Time: ts, TempoBPM: 90, Stage: score.StageMelody},
		Measures: score.PackMeasures(map[theory.Voice][]score.Note{theory.Soprano: notes}, ts, nil),
	}

	// Stretch a note past the barline, then normalize.
	sc.Measures[0].Voices[theory.Soprano][0].Beats = 6
	got := score.Normalize(sc)

	require.Len(t, got.Measures, 3)
	for _, m := range got.Measures {
		require.InDelta(t, 4, voiceBeats(m, theory.Soprano), score.Epsilon, "measure %d", m.Number)
	}
	// The spill-over chunk ties the stretched note across the barline.
	assert.Equal(t, score.ModeTieContinue, got.Measures[1].Voices[theory.Soprano][0].Mode)
}

func TestCloneAndFingerprint(t *testing.T) {
	ts := mustTS(t, "4/4")
	notes := []score.Note{score.NewNote("C4", 4, "sec-1")}
	sc := &score.CanonicalScore{
		Meta:     score.Meta{Key: "C", Time: ts, TempoBPM: 90, Stage: score.StageMelody},
		Measures: score.PackMeasures(map[theory.Voice][]score.Note{theory.Soprano: notes}, ts, nil),
		ChordProgression: []score.Chord{
			{MeasureNumber: 1, SectionID: "sec-1", Symbol: "C", Degree: 1, PitchClasses: [3]int{0, 4, 7}},
		},
	}

	cp := sc.Clone()
	require.Equal(t, sc, cp)
	require.Equal(t, sc.Fingerprint(), cp.Fingerprint())

	// Mutating the clone must not leak into the original, and must
	// change the fingerprint.
	cp.Measures[0].Voices[theory.Soprano][0].Pitch = "D4"
	require.Equal(t, "C4", sc.Measures[0].Voices[theory.Soprano][0].Pitch)
	require.NotEqual(t, sc.Fingerprint(), cp.Fingerprint())
}
