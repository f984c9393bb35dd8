package satb

import (
	"fmt"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// repairLeaps re-snaps lower-voice attacks whose leap from the previous
// sounding pitch exceeds the melodic bound onto a chord tone inside the
// reachable band. Leap continuity follows the voice line itself, so a
// rest between two notes does not reset the bound. Top-down voice order
// lets each repaired line anchor the stack check of the voice below.
func repairLeaps(sc *score.CanonicalScore, chordAt map[int]score.Chord, notes *Notes) {
	for _, v := range []theory.Voice{theory.Alto, theory.Tenor, theory.Bass} {
		repairVoiceLeaps(sc, chordAt, v, notes)
	}
}

func repairVoiceLeaps(sc *score.CanonicalScore, chordAt map[int]score.Chord, v theory.Voice, notes *Notes) {
	hard := theory.HardRange(v)
	prev := -1

	for mi := range sc.Measures {
		m := &sc.Measures[mi]
		line := m.Voices[v]
		for ni := range line {
			if line[ni].Rest {
				continue
			}
			midi, err := line[ni].MIDI()
			if err != nil {
				prev = -1
				continue
			}
			if prev < 0 || abs(midi-prev) <= theory.MaxMelodicLeap {
				prev = midi
				continue
			}

			triad := [3]int{0, 4, 7}
			if ch, ok := chordAt[m.Number]; ok {
				triad = ch.PitchClasses
			}
			candidate := reachableChordTone(sc, mi, ni, v, midi, prev, triad, hard)
			if candidate < 0 {
				notes.Unresolved = append(notes.Unresolved,
					fmt.Sprintf("%s leap of %d semitones into m%d left in place",
						v.String(), abs(midi-prev), m.Number))
				prev = midi
				continue
			}

			line[ni].Pitch = theory.MIDIToPitch(candidate)
			dragHeldStack(sc, mi, ni, v, midi, candidate)
			prev = candidate
		}
	}
}

// reachableChordTone picks the chord tone within MaxMelodicLeap of prev
// that sits nearest the original pitch, preferring candidates that keep
// the vertical stack ordered and spaced. Returns -1 when every
// reachable chord tone would break the stack.
func reachableChordTone(sc *score.CanonicalScore, mi, ni int, v theory.Voice, orig, prev int, triad [3]int, hard theory.Range) int {
	pool := pcSet(triad)
	lo := max(hard.Lo, prev-theory.MaxMelodicLeap)
	hi := min(hard.Hi, prev+theory.MaxMelodicLeap)

	stack, haveStack := readStack(&sc.Measures[mi], mi, ni)

	best := -1
	bestDist := 1 << 30
	for c := lo; c <= hi; c++ {
		if !pool[pc(c)] {
			continue
		}
		if haveStack {
			trial := stack.midi
			trial[v] = c
			if !stackWellFormed(trial) {
				continue
			}
		}
		if d := abs(c - orig); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best
}
