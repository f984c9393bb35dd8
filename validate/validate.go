package validate

import (
	"math"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// ValidateScore checks every structural invariant of a canonical score
// and returns the full issue list. The function is pure: it never
// mutates the score and never stops at the first finding.
//
// Error-severity rules: measure timing, chord coverage and diatonic
// integrity, lyric coverage and orphan continuations, hard voice
// ranges, melodic leap bounds, and (SATB stage) voice alignment,
// ordering, and soprano-alto / alto-tenor spacing.
//
// Warning-severity rules: tessitura drift, strong-beat harmonic
// conformance, tenor-bass spacing, and parallel perfect intervals.
func ValidateScore(sc *score.CanonicalScore) Report {
	var r Report

	scale, haveScale := parseScale(sc, &r)

	checkMeasureTiming(sc, &r)
	checkChords(sc, scale, haveScale, &r)
	checkLyrics(sc, &r)
	checkVoiceLines(sc, &r)
	if haveScale {
		checkStrongBeats(sc, &r)
	}
	if sc.Meta.Stage == score.StageSATB {
		checkSATB(sc, &r)
	}

	return r
}

func parseScale(sc *score.CanonicalScore, r *Report) (theory.Scale, bool) {
	scale, err := theory.ParseKey(sc.Meta.Key, sc.Meta.Mode)
	if err != nil {
		r.addf(SeverityError, RuleKeySignature, 0, "", "",
			"unparseable key %q: %v", sc.Meta.Key, err)

		return theory.Scale{}, false
	}

	return scale, true
}

// checkMeasureTiming verifies that every populated voice fills each
// measure to its exact capacity and that measure numbers run 1..N.
func checkMeasureTiming(sc *score.CanonicalScore, r *Report) {
	for i, m := range sc.Measures {
		if m.Number != i+1 {
			r.addf(SeverityError, RuleMeasureTiming, m.Number, "", "",
				"measure number %d at position %d", m.Number, i+1)
		}
		capacity := m.Capacity(sc.Meta.Time)
		for _, v := range theory.Voices() {
			notes := m.Voices[v]
			if len(notes) == 0 {
				continue
			}
			var sum float64
			for _, n := range notes {
				if n.Beats <= 0 {
					r.addf(SeverityError, RuleMeasureTiming, m.Number, v.String(), n.SectionID,
						"non-positive note duration %.3f", n.Beats)
				}
				sum += n.Beats
			}
			if math.Abs(sum-capacity) > score.Epsilon {
				r.addf(SeverityError, RuleMeasureTiming, m.Number, v.String(), "",
					"voice fills %.3f of %.3f beats", sum, capacity)
			}
		}
	}
}

// checkChords verifies one diatonic chord per sung measure.
func checkChords(sc *score.CanonicalScore, scale theory.Scale, haveScale bool, r *Report) {
	byMeasure := sc.ChordByMeasure()

	for _, m := range sc.Measures {
		if !measureHasSungNotes(m) {
			continue
		}
		ch, ok := byMeasure[m.Number]
		if !ok {
			r.addf(SeverityError, RuleChordCoverage, m.Number, "", "",
				"sung measure has no chord")
			continue
		}
		if ch.Degree < 1 || ch.Degree > 7 {
			r.addf(SeverityError, RuleChordDiatonic, m.Number, "", ch.SectionID,
				"chord degree %d outside 1..7", ch.Degree)
			continue
		}
		if haveScale && ch.PitchClasses != theory.TriadPitchClasses(scale, ch.Degree) {
			r.addf(SeverityError, RuleChordDiatonic, m.Number, "", ch.SectionID,
				"chord %s does not spell the degree-%d triad of %s", ch.Symbol, ch.Degree, sc.Meta.Key)
		}
	}
}

func measureHasSungNotes(m score.Measure) bool {
	for _, v := range theory.Voices() {
		for _, n := range m.Voices[v] {
			if !n.Rest && n.SectionID != score.SectionPadding && n.SectionID != score.SectionInterlude {
				return true
			}
		}
	}

	return false
}

// checkLyrics verifies exact syllable coverage on the soprano line:
// every parsed syllable is sung exactly once, no note references an
// unknown syllable, and every continuation traces back to an
// originating note.
func checkLyrics(sc *score.CanonicalScore, r *Report) {
	known := make(map[string]string, 64)
	for _, sec := range sc.Sections {
		for _, syl := range sec.Syllables {
			known[syl.ID] = sec.ID
		}
	}

	seen := make(map[string]int, len(known))
	origin := make(map[string]bool, len(known))

	for _, n := range sc.FlattenVoice(theory.Soprano) {
		if n.Rest {
			continue
		}
		if n.SyllableID == "" {
			if n.SectionID != score.SectionPadding && n.SectionID != score.SectionInterlude {
				r.addf(SeverityError, RuleLyricCoverage, 0, theory.Soprano.String(), n.SectionID,
					"sounding note carries no syllable")
			}
			continue
		}
		if _, ok := known[n.SyllableID]; !ok {
			r.addf(SeverityError, RuleLyricOrphan, 0, theory.Soprano.String(), n.SectionID,
				"note references unknown syllable %q", n.SyllableID)
			continue
		}
		if n.Mode.Continuation(n.Lyric) {
			if !origin[n.SyllableID] {
				r.addf(SeverityError, RuleLyricOrphan, 0, theory.Soprano.String(), n.SectionID,
					"continuation of %q precedes its originating note", n.SyllableID)
			}
			continue
		}
		seen[n.SyllableID]++
		origin[n.SyllableID] = true
	}

	for id, secID := range known {
		switch seen[id] {
		case 1:
		case 0:
			r.addf(SeverityError, RuleLyricCoverage, 0, theory.Soprano.String(), secID,
				"syllable %q is never sung", id)
		default:
			r.addf(SeverityError, RuleLyricCoverage, 0, theory.Soprano.String(), secID,
				"syllable %q is sung %d times", id, seen[id])
		}
	}
}

// checkVoiceLines verifies hard ranges, leap bounds, and tessitura for
// every populated voice.
func checkVoiceLines(sc *score.CanonicalScore, r *Report) {
	for _, v := range theory.Voices() {
		hard := theory.HardRange(v)
		tess := theory.Tessitura(v)
		prev := -1
		for _, m := range sc.Measures {
			for _, n := range m.Voices[v] {
				if n.Rest {
					continue
				}
				midi, err := n.MIDI()
				if err != nil {
					r.addf(SeverityError, RuleVoiceRange, m.Number, v.String(), n.SectionID,
						"unparseable pitch %q", n.Pitch)
					continue
				}
				if midi < hard.Lo || midi > hard.Hi {
					r.addf(SeverityError, RuleVoiceRange, m.Number, v.String(), n.SectionID,
						"pitch %s outside hard range %s..%s", n.Pitch,
						theory.MIDIToPitch(hard.Lo), theory.MIDIToPitch(hard.Hi))
				}
				if prev >= 0 && abs(midi-prev) > theory.MaxMelodicLeap {
					r.addf(SeverityError, RuleMelodicLeap, m.Number, v.String(), n.SectionID,
						"leap of %d semitones to %s exceeds %d", abs(midi-prev), n.Pitch, theory.MaxMelodicLeap)
				}
				if midi < tess.Lo || midi > tess.Hi {
					r.addf(SeverityWarning, RuleTessitura, m.Number, v.String(), n.SectionID,
						"pitch %s drifts outside tessitura", n.Pitch)
				}
				prev = midi
			}
		}
	}
}

// checkStrongBeats verifies that soprano notes attacking a strong beat
// sound a tone of the measure's chord. Continuations are exempt: their
// pitch is owned by the originating attack.
func checkStrongBeats(sc *score.CanonicalScore, r *Report) {
	byMeasure := sc.ChordByMeasure()

	for _, m := range sc.Measures {
		ch, ok := byMeasure[m.Number]
		if !ok {
			continue
		}
		pos := m.Pickup
		for _, n := range m.Voices[theory.Soprano] {
			if n.Rest || n.Mode.Continuation(n.Lyric) || !sc.Meta.Time.IsStrongBeat(pos) {
				pos += n.Beats
				continue
			}
			midi, err := n.MIDI()
			if err == nil && !inTriad(midi, ch.PitchClasses) {
				r.addf(SeverityWarning, RuleStrongBeat, m.Number, theory.Soprano.String(), n.SectionID,
					"strong-beat pitch %s is not a tone of %s", n.Pitch, ch.Symbol)
			}
			pos += n.Beats
		}
	}
}

func inTriad(midi int, triad [3]int) bool {
	pc := ((midi % 12) + 12) % 12

	return pc == triad[0] || pc == triad[1] || pc == triad[2]
}

// checkSATB verifies four-part alignment, vertical ordering, spacing
// limits, and flags parallel perfect intervals between voice pairs.
func checkSATB(sc *score.CanonicalScore, r *Report) {
	type stack struct {
		measure int
		midi    [4]int
	}
	var prev *stack

	for _, m := range sc.Measures {
		n := len(m.Voices[theory.Soprano])
		aligned := true
		for _, v := range theory.Voices() {
			if len(m.Voices[v]) != n {
				r.addf(SeverityError, RuleVoiceAlignment, m.Number, v.String(), "",
					"voice has %d events, soprano has %d", len(m.Voices[v]), n)
				aligned = false
			}
		}
		if !aligned {
			prev = nil
			continue
		}

		for i := 0; i < n; i++ {
			if m.Voices[theory.Soprano][i].Rest {
				prev = nil
				continue
			}
			var midi [4]int
			ok := true
			for _, v := range theory.Voices() {
				mm, err := m.Voices[v][i].MIDI()
				if err != nil {
					ok = false
					break
				}
				midi[v] = mm
			}
			if !ok {
				prev = nil
				continue
			}

			s, a, t, b := midi[theory.Soprano], midi[theory.Alto], midi[theory.Tenor], midi[theory.Bass]
			if s < a || a < t || t < b {
				r.addf(SeverityError, RuleVoiceOrder, m.Number, "", "",
					"voices cross: S%d A%d T%d B%d", s, a, t, b)
			}
			if s-a > 12 {
				r.addf(SeverityError, RuleVoiceSpacing, m.Number, theory.Alto.String(), "",
					"soprano-alto gap %d exceeds an octave", s-a)
			}
			if a-t > 12 {
				r.addf(SeverityError, RuleVoiceSpacing, m.Number, theory.Tenor.String(), "",
					"alto-tenor gap %d exceeds an octave", a-t)
			}
			if t-b > 16 {
				r.addf(SeverityWarning, RuleVoiceSpacing, m.Number, theory.Bass.String(), "",
					"tenor-bass gap %d is wide", t-b)
			}

			cur := &stack{measure: m.Number, midi: midi}
			if prev != nil {
				flagParallels(prev.midi, cur.midi, m.Number, r)
			}
			prev = cur
		}
	}
}

// flagParallels warns on consecutive perfect unisons/octaves/fifths
// between any pair of voices when both voices move.
func flagParallels(from, to [4]int, measure int, r *Report) {
	voices := theory.Voices()
	for i := 0; i < len(voices); i++ {
		for j := i + 1; j < len(voices); j++ {
			upper, lower := voices[i], voices[j]
			prevIC := intervalClass(from[upper], from[lower])
			curIC := intervalClass(to[upper], to[lower])
			moved := from[upper] != to[upper] && from[lower] != to[lower]
			if moved && prevIC == curIC && (curIC == 0 || curIC == 7) {
				r.addf(SeverityWarning, RuleParallelMotion, measure, lower.String(), "",
					"parallel perfect interval between %s and %s", upper.String(), lower.String())
			}
		}
	}
}

func intervalClass(hi, lo int) int {
	return (((hi - lo) % 12) + 12) % 12
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
