package score

import (
	"math"

	"github.com/cantoria/cantoria/theory"
)

// PackMeasures lays flat per-voice note streams into numbered measures.
//
// Each measure's capacity is BeatsPerMeasure minus its declared pickup
// (pickups maps measure number → pickup beats). Notes longer than the
// remaining room are split at the barline; the carried-over chunk keeps
// the syllable id but becomes a ModeTieContinue with no lyric text, so
// the continuation chain traces back to the originating note. Underfull
// trailing measures are padded with rests, and every voice is padded to
// the same measure count.
//
// Complexity: O(total notes + measures), deterministic.
func PackMeasures(voices map[theory.Voice][]Note, ts TimeSignature, pickups map[int]float64) []Measure {
	perVoice := make(map[theory.Voice][][]Note, 4)
	count := 0
	for _, v := range theory.Voices() {
		perVoice[v] = packStream(voices[v], ts, pickups)
		if len(perVoice[v]) > count {
			count = len(perVoice[v])
		}
	}

	measures := make([]Measure, 0, count)
	for i := 0; i < count; i++ {
		number := i + 1
		m := Measure{
			Number: number,
			Pickup: pickups[number],
			Voices: make(map[theory.Voice][]Note, 4),
		}
		for _, v := range theory.Voices() {
			if i < len(perVoice[v]) {
				m.Voices[v] = perVoice[v][i]

				continue
			}
			m.Voices[v] = []Note{NewRest(m.Capacity(ts), SectionPadding)}
		}
		measures = append(measures, m)
	}

	return measures
}

// Normalize rebuilds a score's measures from its flattened voice
// streams, preserving the existing pickup schedule. Refinement stages
// use it to restore exact barline alignment after note edits.
func Normalize(sc *CanonicalScore) *CanonicalScore {
	pickups := make(map[int]float64, len(sc.Measures))
	for _, m := range sc.Measures {
		if m.Pickup > 0 {
			pickups[m.Number] = m.Pickup
		}
	}

	voices := make(map[theory.Voice][]Note, 4)
	for _, v := range theory.Voices() {
		voices[v] = sc.FlattenVoice(v)
	}

	out := sc.Clone()
	out.Measures = PackMeasures(voices, sc.Meta.Time, pickups)

	return out
}

// capacityAt is the capacity of measure n under the pickup schedule.
func capacityAt(ts TimeSignature, pickups map[int]float64, n int) float64 {
	return ts.BeatsPerMeasure() - pickups[n]
}

// packStream fills measures one voice at a time, splitting notes that
// cross a barline into tie continuations.
func packStream(notes []Note, ts TimeSignature, pickups map[int]float64) [][]Note {
	if len(notes) == 0 {
		return nil
	}

	var (
		measures [][]Note
		current  []Note
		used     float64
		number   = 1
	)

	for _, note := range notes {
		remaining := note.Beats
		first := true
		for remaining > Epsilon {
			capn := capacityAt(ts, pickups, number)
			room := capn - used
			if room <= Epsilon {
				measures = append(measures, current)
				current = nil
				used = 0
				number++
				capn = capacityAt(ts, pickups, number)
				room = capn
			}

			chunk := math.Min(remaining, room)
			current = append(current, chunkNote(note, chunk, first))
			used += chunk
			remaining -= chunk
			first = false

			if used >= capn-Epsilon {
				measures = append(measures, current)
				current = nil
				used = 0
				number++
			}
		}
	}

	if len(current) > 0 {
		capn := capacityAt(ts, pickups, number)
		if used < capn-Epsilon {
			current = append(current, NewRest(capn-used, SectionPadding))
		}
		measures = append(measures, current)
	}

	return measures
}

// chunkNote copies a note trimmed to chunk beats. Later chunks of a
// split sounding note drop the lyric and become tie continuations.
func chunkNote(note Note, chunk float64, first bool) Note {
	out := note
	out.Beats = chunk
	if note.Rest || first {
		return out
	}
	out.Lyric = ""
	out.Mode = ModeTieContinue

	return out
}
