package satb

import (
	"fmt"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// parallelDeltas is the search order for moving an offending voice off
// a parallel perfect interval.
var parallelDeltas = []int{-2, -1, 1, 2, -3, 3}

// stackRef addresses one vertical sonority in the packed measures.
type stackRef struct {
	measureIdx int
	noteIdx    int
	number     int
	midi       [4]int
}

// breakParallels scans consecutive sonorities for parallel perfect
// unisons, octaves, and fifths between the soprano and each lower
// voice, and retunes the lower voice onto a different chord tone when
// one fits the ordering and spacing constraints. Failures are recorded
// in the notes as unresolved.
func breakParallels(sc *score.CanonicalScore, chordAt map[int]score.Chord, notes *Notes) {
	var prev *stackRef

	for mi := range sc.Measures {
		m := &sc.Measures[mi]
		sop := m.Voices[theory.Soprano]
		for ni := range sop {
			if sop[ni].Rest {
				prev = nil
				continue
			}
			cur, ok := readStack(m, mi, ni)
			if !ok {
				prev = nil
				continue
			}
			if prev != nil {
				fixStackParallels(sc, chordAt, prev, cur, notes)
			}
			prev = cur
		}
	}
}

// readStack collects the four MIDI pitches at one aligned position.
func readStack(m *score.Measure, mi, ni int) (*stackRef, bool) {
	ref := &stackRef{measureIdx: mi, noteIdx: ni, number: m.Number}
	for _, v := range theory.Voices() {
		notes := m.Voices[v]
		if ni >= len(notes) || notes[ni].Rest {
			return nil, false
		}
		midi, err := notes[ni].MIDI()
		if err != nil {
			return nil, false
		}
		ref.midi[v] = midi
	}

	return ref, true
}

// fixStackParallels repairs the second sonority of a consecutive pair.
func fixStackParallels(sc *score.CanonicalScore, chordAt map[int]score.Chord, prev, cur *stackRef, notes *Notes) {
	triad := [3]int{0, 4, 7}
	if ch, ok := chordAt[cur.number]; ok {
		triad = ch.PitchClasses
	}

	for _, v := range []theory.Voice{theory.Alto, theory.Tenor, theory.Bass} {
		if !isParallel(prev.midi, cur.midi, v) {
			continue
		}
		if retuneVoice(sc, cur, v, triad, prev) {
			notes.ParallelsFixed++
			continue
		}
		notes.Unresolved = append(notes.Unresolved,
			fmt.Sprintf("parallel %s with soprano into m%d left in place",
				intervalName(intervalClass(cur.midi[theory.Soprano], cur.midi[v])), cur.number))
	}
}

// isParallel reports a moving perfect unison/octave/fifth between the
// soprano and voice v across the pair.
func isParallel(from, to [4]int, v theory.Voice) bool {
	prevIC := intervalClass(from[theory.Soprano], from[v])
	curIC := intervalClass(to[theory.Soprano], to[v])
	moved := from[theory.Soprano] != to[theory.Soprano] && from[v] != to[v]

	return moved && prevIC == curIC && (curIC == 0 || curIC == 7)
}

// retuneVoice tries the delta search; the candidate must stay a chord
// tone, stay in range, keep the stack ordered and spaced, and actually
// break the parallel.
func retuneVoice(sc *score.CanonicalScore, cur *stackRef, v theory.Voice, triad [3]int, prev *stackRef) bool {
	pool := pcSet(triad)
	hard := theory.HardRange(v)
	orig := cur.midi[v]

	for _, d := range parallelDeltas {
		candidate := orig + d
		if candidate < hard.Lo || candidate > hard.Hi || !pool[pc(candidate)] {
			continue
		}
		trial := cur.midi
		trial[v] = candidate
		if !stackWellFormed(trial) {
			continue
		}
		if isParallel(prev.midi, trial, v) {
			continue
		}

		cur.midi[v] = candidate
		note := &sc.Measures[cur.measureIdx].Voices[v][cur.noteIdx]
		note.Pitch = theory.MIDIToPitch(candidate)
		dragHeldStack(sc, cur.measureIdx, cur.noteIdx, v, orig, candidate)

		return true
	}

	return false
}

// dragHeldStack carries a retune through the soprano tie continuations
// that follow it, so held stacks keep matching their attack.
func dragHeldStack(sc *score.CanonicalScore, mi, ni int, v theory.Voice, oldMidi, newMidi int) {
	oldPitch := theory.MIDIToPitch(oldMidi)
	pitch := theory.MIDIToPitch(newMidi)

	ni++
	for ; mi < len(sc.Measures); mi++ {
		m := &sc.Measures[mi]
		sop := m.Voices[theory.Soprano]
		for ; ni < len(sop); ni++ {
			if sop[ni].Rest || sop[ni].Mode != score.ModeTieContinue {
				return
			}
			held := &m.Voices[v][ni]
			if held.Rest || held.Pitch != oldPitch {
				return
			}
			held.Pitch = pitch
		}
		ni = 0
	}
}

// stackWellFormed checks ordering plus the hard spacing limits.
func stackWellFormed(midi [4]int) bool {
	s, a, t, b := midi[theory.Soprano], midi[theory.Alto], midi[theory.Tenor], midi[theory.Bass]

	return s >= a && a >= t && t >= b && s-a <= maxSopranoAlto && a-t <= maxAltoTenor
}

func intervalClass(hi, lo int) int {
	return (((hi - lo) % 12) + 12) % 12
}

func intervalName(ic int) string {
	if ic == 0 {
		return "octave"
	}

	return "fifth"
}
