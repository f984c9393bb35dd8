package melody

import (
	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// clusterCycles maps each section archetype to its repeating degree
// progression. Degrees are diatonic, 1-based.
var clusterCycles = map[string][]int{
	"verse":      {1, 4, 5, 6},
	"chorus":     {1, 5, 6, 4},
	"bridge":     {6, 4, 1, 5},
	"pre-chorus": {2, 4, 5, 1},
	"intro":      {1, 5, 6, 4},
	"outro":      {1, 4, 1, 5},
	"custom":     {1, 6, 4, 5},
}

// degreeCycle returns the progression cycle for a cluster label,
// falling back to the custom cycle for unrecognized labels.
func degreeCycle(cluster string) []int {
	if cyc, ok := clusterCycles[rhythm.Archetype(cluster)]; ok {
		return cyc
	}

	return clusterCycles["custom"]
}

// buildSectionProgression emits one chord per measure across the
// section's measure span, walking the cluster's degree cycle.
func buildSectionProgression(sectionID, cluster string, firstMeasure, lastMeasure int, scale theory.Scale) []score.Chord {
	cycle := degreeCycle(cluster)
	out := make([]score.Chord, 0, lastMeasure-firstMeasure+1)
	for m := firstMeasure; m <= lastMeasure; m++ {
		deg := cycle[(m-firstMeasure)%len(cycle)]
		out = append(out, score.Chord{
			MeasureNumber: m,
			SectionID:     sectionID,
			Symbol:        theory.ChordSymbol(scale, deg),
			Degree:        deg,
			PitchClasses:  theory.TriadPitchClasses(scale, deg),
		})
	}

	return out
}

// sectionSpan is the contiguous measure range owned by one arranged
// section instance.
type sectionSpan struct {
	sectionID string
	cluster   string
	first     int
	last      int
}

// scoreSpans reconstructs per-instance measure spans from the soprano
// notes. Padding and interlude material attaches to no span.
func scoreSpans(cs *score.CanonicalScore) []sectionSpan {
	clusterFor := make(map[string]string, len(cs.Sections))
	for i, sec := range cs.Sections {
		cluster := sec.Label
		if i < len(cs.Arrangement) && cs.Arrangement[i].Cluster != "" {
			cluster = cs.Arrangement[i].Cluster
		}
		clusterFor[sec.ID] = cluster
	}

	var spans []sectionSpan
	for _, meas := range cs.Measures {
		owner := ""
		for _, n := range meas.Voices[theory.Soprano] {
			if n.SectionID != "" && n.SectionID != score.SectionPadding && n.SectionID != score.SectionInterlude {
				owner = n.SectionID
				break
			}
		}
		if owner == "" {
			continue
		}
		if len(spans) > 0 && spans[len(spans)-1].sectionID == owner && spans[len(spans)-1].last == meas.Number-1 {
			spans[len(spans)-1].last = meas.Number
			continue
		}
		spans = append(spans, sectionSpan{
			sectionID: owner,
			cluster:   clusterFor[owner],
			first:     meas.Number,
			last:      meas.Number,
		})
	}

	return spans
}

// repairProgression fills measures that carry notes but no chord,
// reusing the owning section's cycle position. It returns the count of
// chords it added.
func repairProgression(cs *score.CanonicalScore, scale theory.Scale) int {
	covered := make(map[int]bool, len(cs.ChordProgression))
	for _, ch := range cs.ChordProgression {
		covered[ch.MeasureNumber] = true
	}

	added := 0
	for _, span := range scoreSpans(cs) {
		cycle := degreeCycle(span.cluster)
		for m := span.first; m <= span.last; m++ {
			if covered[m] {
				continue
			}
			deg := cycle[(m-span.first)%len(cycle)]
			cs.ChordProgression = append(cs.ChordProgression, score.Chord{
				MeasureNumber: m,
				SectionID:     span.sectionID,
				Symbol:        theory.ChordSymbol(scale, deg),
				Degree:        deg,
				PitchClasses:  theory.TriadPitchClasses(scale, deg),
			})
			covered[m] = true
			added++
		}
	}
	if added > 0 {
		sortChords(cs.ChordProgression)
	}

	return added
}

func sortChords(chords []score.Chord) {
	for i := 1; i < len(chords); i++ {
		for j := i; j > 0 && chords[j].MeasureNumber < chords[j-1].MeasureNumber; j-- {
			chords[j], chords[j-1] = chords[j-1], chords[j]
		}
	}
}
