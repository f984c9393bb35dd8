package melody

import (
	"github.com/cantoria/cantoria/theory"
)

// pcSet turns a triad into a pitch-class membership set.
func pcSet(triad [3]int) map[int]bool {
	return map[int]bool{triad[0]: true, triad[1]: true, triad[2]: true}
}

// scaleSet turns a scale into a pitch-class membership set.
func scaleSet(s theory.Scale) map[int]bool {
	out := make(map[int]bool, 7)
	for _, pc := range s.Semitones() {
		out[pc] = true
	}

	return out
}

// pc folds a MIDI number to its pitch class.
func pc(midi int) int { return ((midi % 12) + 12) % 12 }

// inTriad reports triad membership by pitch class.
func inTriad(midi int, triad [3]int) bool {
	c := pc(midi)

	return c == triad[0] || c == triad[1] || c == triad[2]
}

// constrainMelodicCandidate pulls a raw pitch candidate into singable
// shape for the given voice: inside the hard range, within
// MaxMelodicLeap of the previous note, nudged back toward the
// tessitura, and snapped onto the scale (choosing the in-scale
// neighbor nearer the previous note).
func constrainMelodicCandidate(candidate, previous int, voice theory.Voice, scale map[int]bool) int {
	hard := theory.HardRange(voice)
	tess := theory.Tessitura(voice)

	candidate = theory.NearestInRange(candidate, hard.Lo, hard.Hi)
	for abs(candidate-previous) > theory.MaxMelodicLeap {
		if candidate > previous {
			candidate--
		} else {
			candidate++
		}
	}

	if candidate < tess.Lo {
		candidate++
	} else if candidate > tess.Hi {
		candidate--
	}

	// Final snap: nearest scale tone inside both the hard range and the
	// leap window. Diatonic gaps are at most two semitones, so the
	// window always holds one.
	lo := max(hard.Lo, previous-theory.MaxMelodicLeap)
	hi := min(hard.Hi, previous+theory.MaxMelodicLeap)
	if lo > hi {
		return theory.NearestInRange(previous, hard.Lo, hard.Hi)
	}

	return nearestPitchClass(candidate, scale, lo, hi)
}

// nearestPitchClass picks the in-range pitch matching one of the given
// pitch classes, nearest to target (ties break low).
func nearestPitchClass(target int, classes map[int]bool, lo, hi int) int {
	best, bestDist := -1, 1<<30
	for m := lo; m <= hi; m++ {
		if !classes[pc(m)] {
			continue
		}
		d := abs(m - target)
		if d < bestDist || (d == bestDist && m < best) {
			best, bestDist = m, d
		}
	}
	if best < 0 {
		return theory.NearestInRange(target, lo, hi)
	}

	return best
}

// nearestPitchClassWithLeap is nearestPitchClass restricted to
// candidates within MaxMelodicLeap of previous; when none exists it
// falls back to the unrestricted search.
func nearestPitchClassWithLeap(target, previous int, classes map[int]bool, voice theory.Voice) int {
	hard := theory.HardRange(voice)
	best, bestDist, bestLeap := -1, 1<<30, 1<<30
	for m := hard.Lo; m <= hard.Hi; m++ {
		if !classes[pc(m)] || abs(m-previous) > theory.MaxMelodicLeap {
			continue
		}
		d, l := abs(m-target), abs(m-previous)
		if d < bestDist || (d == bestDist && l < bestLeap) || (d == bestDist && l == bestLeap && m < best) {
			best, bestDist, bestLeap = m, d, l
		}
	}
	if best < 0 {
		return nearestPitchClass(target, classes, hard.Lo, hard.Hi)
	}

	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
