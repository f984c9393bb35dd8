package satb

import (
	"errors"

	"github.com/cantoria/cantoria/melody"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// ErrNotSATB indicates a refine call on a score that is not an
// SATB-stage draft.
var ErrNotSATB = errors.New("satb: refine requires an SATB-stage score")

// RefineSATB adjusts a harmonized score by projecting its soprano back
// to a melody-stage draft, refining that melody under the same
// instruction contract as melody.Refine, and re-harmonizing the result.
// The lower voices are always re-derived, so they stay consistent with
// the adjusted soprano.
func RefineSATB(sc *score.CanonicalScore, instruction string, regenerate bool, selectedUnits []string, sectionClusters map[int]string) (*score.CanonicalScore, Notes, error) {
	if sc.Meta.Stage != score.StageSATB {
		return nil, Notes{}, ErrNotSATB
	}

	projected := ProjectMelody(sc)
	refined, err := melody.Refine(projected, instruction, regenerate, selectedUnits, sectionClusters)
	if err != nil {
		return nil, Notes{}, err
	}

	return Harmonize(refined)
}

// ProjectMelody strips a harmonized score back to its melody stage:
// the soprano is kept, the lower voices are cleared to measure-length
// rests, and the stage marker is reset.
func ProjectMelody(sc *score.CanonicalScore) *score.CanonicalScore {
	out := sc.Clone()
	for mi := range out.Measures {
		m := &out.Measures[mi]
		capacity := m.Capacity(out.Meta.Time)
		for _, v := range []theory.Voice{theory.Alto, theory.Tenor, theory.Bass} {
			m.Voices[v] = []score.Note{score.NewRest(capacity, score.SectionPadding)}
		}
	}
	out.Meta.Stage = score.StageMelody

	return out
}
