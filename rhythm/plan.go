package rhythm

import (
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/score"
)

// newSeededRand derives a PRNG from an arbitrary seed string via
// FNV-64a. This is the only randomness source in the package; the same
// seed always produces the same draw sequence.
func newSeededRand(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))

	return rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // seeded PRNG, determinism is the contract
}

// PlanSyllableRhythm deterministically assigns every syllable one
// rhythmic treatment.
//
// Per syllable, in order:
//
//  1. If the policy prefers strong beats and the syllable is stressed,
//     the previous span is extended by a half-beat continuation until
//     the cursor sits on a whole beat.
//  2. Phrase-final syllables receive PhraseEndHoldBeats; holds longer
//     than one beat split into a syllable-carrying beat plus a tie
//     continuation so barline packing stays exact.
//  3. Otherwise the melisma and subdivision rates resolve through the
//     seeded PRNG: melisma → two half-beat moving notes, subdivision →
//     one half beat, default → one full beat.
//  4. A span that would overrun the current bar is clamped to the
//     remaining capacity as a plain single.
//
// Determinism: identical (syllables, cfg, beatsPerBar) input yields
// byte-identical output; cfg.Seed is the only entropy anchor.
//
// Errors: ErrBadMeter on non-positive beatsPerBar.
//
// Complexity: O(len(syllables)).
func PlanSyllableRhythm(syllables []lyrics.Syllable, beatsPerBar float64, cfg PolicyConfig) ([]Span, error) {
	if beatsPerBar <= 0 {
		return nil, ErrBadMeter
	}

	rng := newSeededRand(cfg.Seed)
	plans := make([]Span, 0, len(syllables))
	beatPos := 0.0

	for _, syl := range syllables {
		if cfg.PreferStrongBeatForStress && syl.Stressed {
			beatPos = alignToStrongBeat(plans, beatPos)
		}

		useMelisma := rng.Float64() < cfg.MelismaRate
		useSubdivision := !useMelisma && rng.Float64() < cfg.SubdivisionRate

		var (
			durations []float64
			modes     []score.LyricMode
		)
		switch {
		case syl.PhraseEnd:
			hold := cfg.PhraseEndHoldBeats
			if hold <= 1.0 {
				durations = []float64{hold}
				modes = []score.LyricMode{score.ModeSingle}
			} else {
				durations = []float64{1.0, hold - 1.0}
				modes = []score.LyricMode{score.ModeSingle, score.ModeTieContinue}
			}
		case useMelisma:
			durations = []float64{0.5, 0.5}
			modes = []score.LyricMode{score.ModeMelisma, score.ModeMelisma}
		case useSubdivision:
			durations = []float64{0.5}
			modes = []score.LyricMode{score.ModeSubdivision}
		default:
			durations = []float64{1.0}
			modes = []score.LyricMode{score.ModeSingle}
		}

		// Never overrun the bar: clamp to the remaining capacity.
		remaining := beatsPerBar - math.Mod(beatPos, beatsPerBar)
		if sum(durations) > remaining+score.Epsilon {
			durations = []float64{remaining}
			modes = []score.LyricMode{score.ModeSingle}
		}

		plans = append(plans, Span{
			SyllableID: syl.ID,
			Text:       syl.Text,
			SectionID:  syl.SectionID,
			LyricIndex: len(plans),
			Stressed:   syl.Stressed,
			Durations:  durations,
			Modes:      modes,
		})
		beatPos += sum(durations)
	}

	return plans, nil
}

// alignToStrongBeat extends the last span with a half-beat melisma
// continuation when the cursor sits off the beat, pulling the upcoming
// stressed syllable onto a whole beat.
func alignToStrongBeat(plans []Span, beatPos float64) float64 {
	if len(plans) > 0 && math.Abs(math.Mod(beatPos, 1.0)) > score.Epsilon {
		last := &plans[len(plans)-1]
		last.Durations = append(last.Durations, 0.5)
		last.Modes = append(last.Modes, score.ModeMelisma)

		return beatPos + 0.5
	}

	return beatPos
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}

	return s
}
