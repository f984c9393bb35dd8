package melody

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
	"github.com/cantoria/cantoria/validate"
)

// Refine produces a new melody draft from an existing one, leaving the
// input untouched.
//
// With regenerate false the instruction steers a pitch adjustment:
// "higher"/"brighter" raises the line, "lower"/"darker" lowers it, and
// anything else smooths it, always re-snapping onto the key, the hard
// range, the leap bound, and strong-beat chord tones. Lyric mapping,
// rhythm, and measure count are preserved exactly.
//
// With regenerate true, pitches are re-derived from a fresh seed, but
// only for arranged positions whose cluster is named in selectedUnits
// (empty selects all; unknown cluster names are ignored). Every note
// outside the selected sections is left byte-identical.
// sectionClusters overrides the cluster key per arranged position.
//
// Errors: ErrWrongStage on a non-melody score, ErrRefineInvalid when
// the adjusted score fails validation.
func Refine(sc *score.CanonicalScore, instruction string, regenerate bool, selectedUnits []string, sectionClusters map[int]string) (*score.CanonicalScore, error) {
	if sc.Meta.Stage != score.StageMelody {
		return nil, ErrWrongStage
	}
	scale, err := theory.ParseKey(sc.Meta.Key, sc.Meta.Mode)
	if err != nil {
		return nil, err
	}

	out := sc.Clone()
	if regenerate {
		regeneratePitches(out, scale, instruction, selectedUnits, sectionClusters)
	} else {
		adjustPitches(out, scale, instruction)
	}

	if rep := validate.ValidateScore(out); !rep.OK() {
		return nil, fmt.Errorf("%w: %s", ErrRefineInvalid, rep.String())
	}
	out.Meta.Rationale = refineRationale(instruction, regenerate, selectedUnits)

	return out, nil
}

func refineRationale(instruction string, regenerate bool, selectedUnits []string) string {
	if !regenerate {
		return fmt.Sprintf("refined melody (%s)", firstNonEmpty(instruction, "smoothing"))
	}
	if len(selectedUnits) == 0 {
		return "regenerated melody for all clusters"
	}

	return fmt.Sprintf("regenerated melody for %s", strings.Join(selectedUnits, ", "))
}

// clusterForPosition resolves the cluster key of one arranged position,
// preferring the explicit override, then the arrangement item, then
// the section label.
func clusterForPosition(sc *score.CanonicalScore, i int, sectionClusters map[int]string) string {
	if c, ok := sectionClusters[i]; ok && c != "" {
		return c
	}
	if i < len(sc.Arrangement) && sc.Arrangement[i].Cluster != "" {
		return sc.Arrangement[i].Cluster
	}

	return sc.Sections[i].Label
}

// regeneratePitches re-derives the soprano contour for the selected
// sections only, keeping pitch continuity with the surrounding
// untouched material.
func regeneratePitches(sc *score.CanonicalScore, scale theory.Scale, instruction string, selectedUnits []string, sectionClusters map[int]string) {
	wanted := make(map[string]bool, len(selectedUnits))
	for _, u := range selectedUnits {
		wanted[u] = true
	}

	selected := make(map[string]bool, len(sc.Sections))
	centerOf := make(map[string]int, len(sc.Sections))
	for i, sec := range sc.Sections {
		cluster := clusterForPosition(sc, i, sectionClusters)
		centerOf[sec.ID] = clusterCenter(cluster)
		if len(selectedUnits) == 0 || wanted[cluster] {
			selected[sec.ID] = true
		}
	}

	units := "*"
	if len(selectedUnits) > 0 {
		sorted := append([]string(nil), selectedUnits...)
		sort.Strings(sorted)
		units = strings.Join(sorted, ",")
	}
	rng := newSeededRand(fmt.Sprintf("regen|%s|%s|%s|%s",
		sc.Meta.Key, sc.Meta.Time.String(), instruction, units))

	members := scaleSet(scale)
	chordAt := sc.ChordByMeasure()
	prev := -1

	for mi := range sc.Measures {
		m := &sc.Measures[mi]
		pos := m.Pickup
		notes := m.Voices[theory.Soprano]
		for ni := range notes {
			n := &notes[ni]
			if n.Rest {
				pos += n.Beats
				continue
			}
			midi, err := n.MIDI()
			if err != nil {
				pos += n.Beats
				continue
			}
			if !selected[n.SectionID] {
				prev = midi
				pos += n.Beats
				continue
			}

			if n.Mode == score.ModeTieContinue && prev >= 0 {
				n.Pitch = theory.MIDIToPitch(prev)
				pos += n.Beats
				continue
			}

			center, ok := centerOf[n.SectionID]
			if !ok {
				center = centerBright
			}
			anchor := center
			if prev >= 0 {
				anchor = prev
			}
			candidate := anchor + rng.Intn(5) - 2 + drift(anchor, center)

			var next int
			if ch, ok := chordAt[m.Number]; ok && sc.Meta.Time.IsStrongBeat(pos) {
				next = nearestPitchClassWithLeap(candidate, anchor, pcSet(ch.PitchClasses), theory.Soprano)
			} else {
				next = constrainMelodicCandidate(candidate, anchor, theory.Soprano, members)
			}
			n.Pitch = theory.MIDIToPitch(next)
			prev = next
			pos += n.Beats
		}
	}
}

// adjustPitches applies the instruction-directed shift and re-snaps
// every soprano attack onto its constraints.
func adjustPitches(sc *score.CanonicalScore, scale theory.Scale, instruction string) {
	delta := instructionDelta(instruction)
	members := scaleSet(scale)
	chordAt := sc.ChordByMeasure()
	prev := -1

	for mi := range sc.Measures {
		m := &sc.Measures[mi]
		pos := m.Pickup
		notes := m.Voices[theory.Soprano]
		for ni := range notes {
			n := &notes[ni]
			if n.Rest {
				pos += n.Beats
				continue
			}
			midi, err := n.MIDI()
			if err != nil {
				pos += n.Beats
				continue
			}

			if n.Mode == score.ModeTieContinue && prev >= 0 {
				n.Pitch = theory.MIDIToPitch(prev)
				pos += n.Beats
				continue
			}

			anchor := midi
			if prev >= 0 {
				anchor = prev
			}
			candidate := midi + delta

			var next int
			if ch, ok := chordAt[m.Number]; ok && sc.Meta.Time.IsStrongBeat(pos) {
				next = nearestPitchClassWithLeap(candidate, anchor, pcSet(ch.PitchClasses), theory.Soprano)
			} else {
				next = constrainMelodicCandidate(candidate, anchor, theory.Soprano, members)
			}
			n.Pitch = theory.MIDIToPitch(next)
			prev = next
			pos += n.Beats
		}
	}
}

// instructionDelta reads the coarse direction out of a free-form
// refinement instruction.
func instructionDelta(instruction string) int {
	s := strings.ToLower(instruction)
	switch {
	case strings.Contains(s, "higher"), strings.Contains(s, "bright"), strings.Contains(s, "lift"), strings.Contains(s, " up"):
		return 2
	case strings.Contains(s, "lower"), strings.Contains(s, "dark"), strings.Contains(s, "deep"), strings.Contains(s, " down"):
		return -2
	default:
		return 0
	}
}
