package melody

import (
	"github.com/cantoria/cantoria/score"
)

// plannedNote is one soprano event with its attack coordinates, before
// pitch assignment.
type plannedNote struct {
	note score.Note

	// measure and pos locate the attack: 1-based measure number and
	// in-bar beat position including any pickup offset.
	measure int
	pos     float64
}

// tracker walks the measure grid while the soprano stream is laid out.
// It only accounts positions; the actual barline splitting happens in
// score.PackMeasures with the same pickup schedule.
type tracker struct {
	ts      score.TimeSignature
	pickups map[int]float64

	measure int
	used    float64

	notes []plannedNote
}

func newTracker(ts score.TimeSignature) *tracker {
	return &tracker{ts: ts, pickups: make(map[int]float64), measure: 1}
}

func (t *tracker) capacity() float64 {
	return t.ts.BeatsPerMeasure() - t.pickups[t.measure]
}

// pos is the in-bar beat position of the next attack.
func (t *tracker) pos() float64 {
	return t.pickups[t.measure] + t.used
}

// add appends a note and advances the cursor, rolling over barlines.
func (t *tracker) add(n score.Note) {
	t.notes = append(t.notes, plannedNote{note: n, measure: t.measure, pos: t.pos()})

	remaining := n.Beats
	for remaining > score.Epsilon {
		room := t.capacity() - t.used
		if room <= score.Epsilon {
			t.measure++
			t.used = 0
			room = t.capacity()
		}
		chunk := remaining
		if chunk > room {
			chunk = room
		}
		t.used += chunk
		remaining -= chunk
	}
	if t.used >= t.capacity()-score.Epsilon {
		t.measure++
		t.used = 0
	}
}

// atBarline reports whether the cursor sits exactly on a barline.
func (t *tracker) atBarline() bool {
	return t.used <= score.Epsilon
}

// remainingInBar is the room left before the next barline.
func (t *tracker) remainingInBar() float64 {
	return t.capacity() - t.used
}

// padToBarline closes the current measure with a rest owned by
// sectionID; a cursor already on the barline adds nothing.
func (t *tracker) padToBarline(sectionID string) {
	if t.atBarline() {
		return
	}
	t.add(score.NewRest(t.remainingInBar(), sectionID))
}

// declarePickup shortens the current measure by beats. The cursor must
// sit on a barline; pickups never back-fill a started measure.
func (t *tracker) declarePickup(beats float64) {
	if !t.atBarline() || beats <= score.Epsilon || beats >= t.ts.BeatsPerMeasure()-score.Epsilon {
		return
	}
	t.pickups[t.measure] = beats
}

// stream returns the flat note list laid out so far.
func (t *tracker) stream() []score.Note {
	out := make([]score.Note, len(t.notes))
	for i, pn := range t.notes {
		out[i] = pn.note
	}

	return out
}
