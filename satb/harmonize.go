package satb

import (
	"errors"
	"fmt"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
	"github.com/cantoria/cantoria/validate"
)

// ErrNotMelody indicates a harmonize call on a score that is not a
// melody-stage draft.
var ErrNotMelody = errors.New("satb: harmonize requires a melody-stage score")

// ErrHarmonizeInvalid indicates a harmonization the validator rejects
// even after the repair passes. The operation fails closed: no score is
// returned.
var ErrHarmonizeInvalid = errors.New("satb: harmonized score failed validation")

// Spacing limits between adjacent voices, in semitones. The tenor-bass
// limit is soft: exceeding it degrades the voicing but never blocks it.
const (
	maxSopranoAlto = 12
	maxAltoTenor   = 12
	maxTenorBass   = 16
)

// Starting pitches for the lower voices' leading lines.
var startingPitch = map[theory.Voice]int{
	theory.Alto:  62,
	theory.Tenor: 55,
	theory.Bass:  48,
}

// Notes summarizes how the harmonization went.
type Notes struct {
	// Approach names the voicing strategy used.
	Approach string `json:"approach"`

	// Harmonized counts the soprano events that received lower voices.
	Harmonized int `json:"harmonized"`

	// ParallelsFixed counts parallel perfect intervals broken by the
	// cleanup pass.
	ParallelsFixed int `json:"parallels_fixed"`

	// Unresolved lists the spots the cleanup pass had to leave as-is.
	Unresolved []string `json:"unresolved,omitempty"`
}

// Harmonize derives alto, tenor, and bass lines under the measure
// chords of a melody-stage score and returns the SATB-stage result with
// a summary of the voicing decisions. The input is never mutated.
//
// Per sounding soprano event the lower voices take chord tones chosen
// nearest their previous pitch inside a window that enforces ordering
// and spacing against the voice above; the bass prefers the chord root
// when a root octave sits within the melodic leap bound. Soprano rests
// and tie continuations are mirrored: rests silence all voices,
// continuations hold the previous stack.
//
// After the parallel and leap repair passes the result is validated;
// a score the validator still rejects is withheld and the call returns
// ErrHarmonizeInvalid.
func Harmonize(melody *score.CanonicalScore) (*score.CanonicalScore, Notes, error) {
	if melody.Meta.Stage != score.StageMelody {
		return nil, Notes{}, ErrNotMelody
	}

	out := melody.Clone()
	notes := Notes{Approach: "chord-tone block harmony"}
	chordAt := out.ChordByMeasure()

	prev := map[theory.Voice]int{
		theory.Alto:  startingPitch[theory.Alto],
		theory.Tenor: startingPitch[theory.Tenor],
		theory.Bass:  startingPitch[theory.Bass],
	}

	for mi := range out.Measures {
		m := &out.Measures[mi]
		sop := m.Voices[theory.Soprano]
		alto := make([]score.Note, 0, len(sop))
		tenor := make([]score.Note, 0, len(sop))
		bass := make([]score.Note, 0, len(sop))

		for _, sn := range sop {
			if sn.Rest {
				alto = append(alto, score.NewRest(sn.Beats, sn.SectionID))
				tenor = append(tenor, score.NewRest(sn.Beats, sn.SectionID))
				bass = append(bass, score.NewRest(sn.Beats, sn.SectionID))
				continue
			}

			s, err := sn.MIDI()
			if err != nil {
				return nil, Notes{}, fmt.Errorf("satb: soprano m%d: %w", m.Number, err)
			}

			var a, t, b int
			if sn.Mode == score.ModeTieContinue {
				a, t, b = prev[theory.Alto], prev[theory.Tenor], prev[theory.Bass]
			} else {
				triad, ok := chordAt[m.Number]
				if !ok {
					triad = score.Chord{PitchClasses: [3]int{0, 4, 7}}
				}
				a, t, b = voiceStack(s, prev, triad.PitchClasses)
				notes.Harmonized++
			}

			alto = append(alto, harmonyNote(a, sn))
			tenor = append(tenor, harmonyNote(t, sn))
			bass = append(bass, harmonyNote(b, sn))
			prev[theory.Alto], prev[theory.Tenor], prev[theory.Bass] = a, t, b
		}

		m.Voices[theory.Alto] = alto
		m.Voices[theory.Tenor] = tenor
		m.Voices[theory.Bass] = bass
	}

	breakParallels(out, chordAt, &notes)
	repairLeaps(out, chordAt, &notes)

	out.Meta.Stage = score.StageSATB
	out.Meta.Rationale = fmt.Sprintf("SATB harmonization, %s", notes.Approach)

	if report := validate.ValidateScore(out); !report.OK() {
		return nil, Notes{}, fmt.Errorf("%w: %s", ErrHarmonizeInvalid, report.String())
	}

	return out, notes, nil
}

// harmonyNote builds a lower-voice note aligned with the soprano event.
func harmonyNote(midi int, sop score.Note) score.Note {
	return score.NewNote(theory.MIDIToPitch(midi), sop.Beats, sop.SectionID)
}

// voiceStack assigns alto, tenor, and bass chord tones under the given
// soprano pitch, top-down so each window is anchored to the voice
// above.
func voiceStack(s int, prev map[theory.Voice]int, triad [3]int) (a, t, b int) {
	pool := pcSet(triad)
	rootPool := map[int]bool{triad[0]: true}

	a = chooseChordTone(prev[theory.Alto], pool, windowBelow(theory.Alto, s, maxSopranoAlto))
	t = chooseChordTone(prev[theory.Tenor], pool, windowBelow(theory.Tenor, a, maxAltoTenor))

	bw := windowBelow(theory.Bass, t, maxTenorBass)
	b = chooseChordTone(prev[theory.Bass], rootPool, bw)
	if b < 0 || abs(b-prev[theory.Bass]) > theory.MaxMelodicLeap {
		// No reachable root octave; any chord tone beats a broken line.
		if full := chooseChordTone(prev[theory.Bass], pool, bw); full >= 0 {
			b = full
		}
	}
	if b < 0 {
		hard := theory.HardRange(theory.Bass)
		b = theory.NearestInRange(min(t, prev[theory.Bass]), hard.Lo, hard.Hi)
	}

	return a, t, b
}

// window is an inclusive MIDI interval; empty when lo > hi.
type window struct{ lo, hi int }

// windowBelow intersects the voice's hard range with the band sitting
// at most gap semitones under the upper voice's pitch.
func windowBelow(v theory.Voice, upper, gap int) window {
	hard := theory.HardRange(v)

	return window{lo: max(hard.Lo, upper-gap), hi: min(hard.Hi, upper)}
}

// chooseChordTone picks the pool pitch inside the window nearest prev,
// preferring candidates within the melodic leap bound. Returns -1 when
// the window holds no pool pitch.
func chooseChordTone(prev int, pool map[int]bool, w window) int {
	best, bestCost := -1, 1<<30
	for midi := w.lo; midi <= w.hi; midi++ {
		if !pool[pc(midi)] {
			continue
		}
		leap := abs(midi - prev)
		cost := leap
		if leap > theory.MaxMelodicLeap {
			cost += 100
		}
		if cost < bestCost {
			best, bestCost = midi, cost
		}
	}

	return best
}

func pcSet(triad [3]int) map[int]bool {
	return map[int]bool{triad[0]: true, triad[1]: true, triad[2]: true}
}

func pc(midi int) int { return ((midi % 12) + 12) % 12 }

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
