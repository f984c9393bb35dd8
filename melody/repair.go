package melody

import (
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// repairScore runs the in-place auto-repair passes over a melody-stage
// score: fill chord gaps, re-snap out-of-key or out-of-range soprano
// pitches, and pull strong-beat attacks onto chord tones. Repairs only
// touch pitches and the chord list; rhythm, lyrics, and measure
// structure are left alone.
func repairScore(sc *score.CanonicalScore, scale theory.Scale) {
	repairProgression(sc, scale)
	repairStrongBeats(sc)
	repairVoiceLine(sc, scale)
}

// repairStrongBeats snaps soprano strong-beat attacks that fall outside
// the measure's chord onto its nearest chord tone, then drags the
// note's tie chain along.
func repairStrongBeats(sc *score.CanonicalScore) {
	chordAt := sc.ChordByMeasure()
	prev := -1

	for mi := range sc.Measures {
		m := &sc.Measures[mi]
		ch, hasChord := chordAt[m.Number]
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
			attack := !n.Mode.Continuation(n.Lyric)
			if attack && hasChord && sc.Meta.Time.IsStrongBeat(pos) && !inTriad(midi, ch.PitchClasses) {
				anchor := midi
				if prev >= 0 {
					anchor = prev
				}
				midi = nearestPitchClassWithLeap(midi, anchor, pcSet(ch.PitchClasses), theory.Soprano)
				n.Pitch = theory.MIDIToPitch(midi)
				dragTieChain(sc, mi, ni, n.SyllableID, midi)
			}
			prev = midi
			pos += n.Beats
		}
	}
}

// dragTieChain rewrites the pitch of the tie continuations that follow
// the note at (measureIdx, noteIdx) and sustain the same syllable.
func dragTieChain(sc *score.CanonicalScore, measureIdx, noteIdx int, syllableID string, midi int) {
	pitch := theory.MIDIToPitch(midi)
	ni := noteIdx + 1
	for mi := measureIdx; mi < len(sc.Measures); mi++ {
		notes := sc.Measures[mi].Voices[theory.Soprano]
		for ; ni < len(notes); ni++ {
			n := &notes[ni]
			if n.Mode != score.ModeTieContinue || n.SyllableID != syllableID {
				return
			}
			n.Pitch = pitch
		}
		ni = 0
	}
}

// repairVoiceLine walks the soprano re-snapping every pitch that breaks
// the hard range, the leap bound, or the key, and re-aligning tie
// continuations with their origin.
func repairVoiceLine(sc *score.CanonicalScore, scale theory.Scale) {
	members := scaleSet(scale)
	prev := -1

	for mi := range sc.Measures {
		notes := sc.Measures[mi].Voices[theory.Soprano]
		for ni := range notes {
			n := &notes[ni]
			if n.Rest {
				continue
			}
			midi, err := n.MIDI()
			if err != nil {
				continue
			}

			if n.Mode == score.ModeTieContinue && prev >= 0 {
				if midi != prev {
					n.Pitch = theory.MIDIToPitch(prev)
				}
				continue
			}

			hard := theory.HardRange(theory.Soprano)
			broken := midi < hard.Lo || midi > hard.Hi || !members[pc(midi)] ||
				(prev >= 0 && abs(midi-prev) > theory.MaxMelodicLeap)
			if broken {
				anchor := midi
				if prev >= 0 {
					anchor = prev
				}
				midi = constrainMelodicCandidate(midi, anchor, theory.Soprano, members)
				n.Pitch = theory.MIDIToPitch(midi)
			}
			prev = midi
		}
	}
}
