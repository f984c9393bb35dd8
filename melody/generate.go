package melody

import (
	"fmt"
	"strings"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/rhythm"
	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
	"github.com/cantoria/cantoria/validate"
)

// Melodic centers the contour drifts toward, per cluster archetype.
const (
	centerRelaxed = 64
	centerBright  = 67
)

// functionWords open weakly; an auto anacrusis triggers when an
// arranged item's lyric starts with one of these.
var functionWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true,
	"o": true, "oh": true, "of": true, "to": true, "in": true,
	"on": true, "for": true, "with": true,
}

// instance is one arranged section occurrence, fully prepared for
// layout.
type instance struct {
	id      string
	in      SectionInput
	item    score.ArrangementItem
	cluster string
	pause   float64
	blocks  []lyrics.PhraseBlock
	sylls   []lyrics.Syllable
}

// Generate composes a complete melody-stage canonical score from a
// request.
//
// The pipeline: resolve style/mood-seeded defaults, expand the
// arrangement into section instances, tokenize lyrics, plan per-section
// rhythm, lay out the soprano over the measure grid, derive per-cluster
// chord progressions, assign pitches under contour constraints, pack
// measures, and validate. A score the validator rejects goes through
// the auto-repair passes and, failing that, a fresh attempt with a
// perturbed seed, up to five attempts.
//
// Errors: ErrNoSections, ErrUnknownSection, ErrEmptySection for
// malformed requests; theory.ErrBadKey and score.ErrBadTimeSignature
// for unparseable preferences; ErrGenerationExhausted when no attempt
// converges.
func Generate(req Request) (*score.CanonicalScore, error) {
	if len(req.Sections) == 0 {
		return nil, ErrNoSections
	}

	prefs := resolveDefaults(req.Preferences)
	scale, err := theory.ParseKey(prefs.Key, prefs.PrimaryMode)
	if err != nil {
		return nil, err
	}
	ts, err := score.ParseTimeSignature(prefs.TimeSignature)
	if err != nil {
		return nil, err
	}

	instances, err := expandArrangement(req)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		sc, err := buildAttempt(instances, prefs, scale, ts, attempt)
		if err != nil {
			return nil, err
		}
		if validate.ValidateScore(sc).OK() {
			return sc, nil
		}
		repairScore(sc, scale)
		if validate.ValidateScore(sc).OK() {
			return sc, nil
		}
	}

	return nil, ErrGenerationExhausted
}

// expandArrangement turns the request into ordered section instances.
// An absent arrangement schedules every section once, in declaration
// order. Instance ids are "sec-1", "sec-2", … in arranged order so
// repeated sections carry distinct syllable ids.
func expandArrangement(req Request) ([]instance, error) {
	byID := make(map[string]SectionInput, len(req.Sections))
	for i, in := range req.Sections {
		if in.ID == "" {
			in.ID = fmt.Sprintf("section-%d", i+1)
		}
		byID[in.ID] = in
		req.Sections[i] = in
	}

	items := req.Arrangement
	if len(items) == 0 {
		items = make([]score.ArrangementItem, 0, len(req.Sections))
		for _, in := range req.Sections {
			items = append(items, score.ArrangementItem{SectionID: in.ID, PauseBeats: in.PauseBeats})
		}
	}

	out := make([]instance, 0, len(items))
	for i, item := range items {
		in, ok := byID[item.SectionID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSection, item.SectionID)
		}

		inst := instance{
			id:      fmt.Sprintf("sec-%d", i+1),
			in:      in,
			item:    item,
			cluster: firstNonEmpty(item.Cluster, in.Cluster, in.Label),
			pause:   item.PauseBeats,
		}
		if inst.pause == 0 {
			inst.pause = in.PauseBeats
		}

		inst.blocks = lyrics.Blocks(inst.id, in.Text)
		for _, b := range inst.blocks {
			inst.sylls = append(inst.sylls, b.Syllables...)
		}
		if len(inst.sylls) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptySection, item.SectionID)
		}
		applyPhraseOverrides(&inst)

		out = append(out, inst)
	}

	return out, nil
}

// applyPhraseOverrides folds the item's phrase-block overrides into the
// instance's syllable flags and per-line lookup. MergeWithNext drops
// the phrase end of the addressed line so the planner treats both lines
// as one phrase.
func applyPhraseOverrides(inst *instance) {
	offset := 0
	for _, b := range inst.blocks {
		last := offset + len(b.Syllables) - 1
		if ov, ok := overrideForLine(inst.item.Phrases, b.Line); ok && ov.MergeWithNext {
			inst.sylls[last].PhraseEnd = false
		}
		offset += len(b.Syllables)
	}
}

func overrideForLine(phrases []score.PhraseOverride, line int) (score.PhraseOverride, bool) {
	for _, p := range phrases {
		if p.Line == line {
			return p, true
		}
	}

	return score.PhraseOverride{}, false
}

// buildAttempt performs one full layout + pitch assignment pass.
func buildAttempt(instances []instance, prefs Preferences, scale theory.Scale, ts score.TimeSignature, attempt int) (*score.CanonicalScore, error) {
	t := newTracker(ts)
	var (
		spans    []sectionSpan
		sections []score.Section
		items    []score.ArrangementItem
	)

	for _, inst := range instances {
		t.padToBarline(score.SectionInterlude)
		declareAnacrusis(t, inst)

		first := t.measure
		if err := layoutInstance(t, inst, prefs, attempt); err != nil {
			return nil, err
		}
		t.padToBarline(inst.id)
		last := t.measure - 1
		if last >= first {
			spans = append(spans, sectionSpan{sectionID: inst.id, cluster: inst.cluster, first: first, last: last})
		}
		if inst.pause > 0 {
			t.add(score.NewRest(inst.pause, score.SectionInterlude))
		}

		sections = append(sections, score.Section{
			ID:         inst.id,
			Label:      inst.in.Label,
			Verse:      inst.in.Verse,
			Text:       inst.in.Text,
			PauseBeats: inst.pause,
			Syllables:  inst.sylls,
		})
		item := inst.item
		item.Cluster = inst.cluster
		items = append(items, item)
	}

	var chords []score.Chord
	for _, sp := range spans {
		chords = append(chords, buildSectionProgression(sp.sectionID, sp.cluster, sp.first, sp.last, scale)...)
	}

	assignPitches(t, instances, chords, scale, ts, pitchSeed(prefs, attempt))

	voices := map[theory.Voice][]score.Note{theory.Soprano: t.stream()}
	sc := &score.CanonicalScore{
		Meta: score.Meta{
			Key:      prefs.Key,
			Mode:     prefs.PrimaryMode,
			Time:     ts,
			TempoBPM: prefs.TempoBPM,
			Title:    prefs.Title,
			Style:    prefs.Style,
			Mood:     prefs.Mood,
			Stage:    score.StageMelody,
			Rationale: fmt.Sprintf("melody in %s, %s at %d BPM, %s rhythm",
				prefs.Key, ts.String(), prefs.TempoBPM, prefs.Preset),
		},
		Sections:         sections,
		Arrangement:      items,
		Measures:         score.PackMeasures(voices, ts, t.pickups),
		ChordProgression: chords,
	}

	return sc, nil
}

// declareAnacrusis applies the item's pickup configuration at the
// instance's first measure. Manual mode removes the declared beat count
// from the measure; auto derives a one-beat pickup measure when the
// lyric opens on a function word. The preceding measure is never
// back-filled.
func declareAnacrusis(t *tracker, inst instance) {
	switch inst.item.Anacrusis.Mode {
	case score.AnacrusisManual:
		t.declarePickup(inst.item.Anacrusis.Beats)
	case score.AnacrusisAuto:
		if opensWeakly(inst.sylls) {
			t.declarePickup(t.ts.BeatsPerMeasure() - 1)
		}
	}
}

// opensWeakly reports whether the lyric starts on an unstressed attack:
// either the first syllable is unstressed or the first word is a
// function word.
func opensWeakly(sylls []lyrics.Syllable) bool {
	if len(sylls) == 0 {
		return false
	}
	if !sylls[0].Stressed {
		return true
	}

	return functionWords[strings.ToLower(sylls[0].Word)]
}

// layoutInstance plans the instance's rhythm and appends pitchless
// soprano events to the tracker, honoring barline and breath overrides.
func layoutInstance(t *tracker, inst instance, prefs Preferences, attempt int) error {
	cfg, err := rhythm.ConfigForPreset(prefs.Preset, inst.cluster)
	if err != nil {
		return err
	}
	cfg.Seed = fmt.Sprintf("%s|%s|%s|%s|%s|rhythm|%s|attempt-%d",
		prefs.Key, prefs.TimeSignature, prefs.Preset, prefs.Style, prefs.Mood, inst.id, attempt)

	plan, err := rhythm.PlanSyllableRhythm(inst.sylls, t.ts.BeatsPerMeasure(), cfg)
	if err != nil {
		return err
	}

	lineOf := make(map[string]int, len(inst.sylls))
	for _, b := range inst.blocks {
		for _, syl := range b.Syllables {
			lineOf[syl.ID] = b.Line
		}
	}

	for i, span := range plan {
		for k := range span.Durations {
			n := score.NewNote("", span.Durations[k], inst.id)
			text := span.Text
			if k > 0 {
				text = ""
			}
			n, err = n.WithLyric(text, span.SyllableID, span.LyricIndex, span.Modes[k])
			if err != nil {
				return err
			}
			t.add(n)
		}

		if !inst.sylls[i].PhraseEnd {
			continue
		}
		ov, ok := overrideForLine(inst.item.Phrases, lineOf[span.SyllableID])
		if !ok {
			continue
		}
		if ov.MustEndAtBarline && !t.atBarline() {
			hold := score.NewNote("", t.remainingInBar(), inst.id)
			hold, err = hold.WithLyric("", span.SyllableID, span.LyricIndex, score.ModeTieContinue)
			if err != nil {
				return err
			}
			t.add(hold)
		}
		if ov.BreathAfter {
			t.add(score.NewRest(0.5, inst.id))
		}
	}

	return nil
}

// pitchSeed anchors the contour PRNG to every pitch-relevant input.
func pitchSeed(prefs Preferences, attempt int) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|pitch|attempt-%d",
		prefs.Key, prefs.TimeSignature, prefs.Preset, prefs.Style, prefs.Mood, attempt)
}

// clusterCenter picks the melodic center a cluster's contour drifts
// toward: verse and bridge sit lower, everything else brighter.
func clusterCenter(cluster string) int {
	switch rhythm.Archetype(cluster) {
	case "verse", "bridge":
		return centerRelaxed
	default:
		return centerBright
	}
}

// assignPitches fills in soprano pitches over the planned events:
// random-walk contour with drift toward the cluster center, chord-tone
// snapping on strong-beat attacks, scale snapping elsewhere, and exact
// pitch copying on tie continuations.
func assignPitches(t *tracker, instances []instance, chords []score.Chord, scale theory.Scale, ts score.TimeSignature, seed string) {
	rng := newSeededRand(seed)
	scaleMembers := scaleSet(scale)
	chordAt := make(map[int][3]int, len(chords))
	for _, ch := range chords {
		if _, ok := chordAt[ch.MeasureNumber]; !ok {
			chordAt[ch.MeasureNumber] = ch.PitchClasses
		}
	}
	centerOf := make(map[string]int, len(instances))
	for _, inst := range instances {
		centerOf[inst.id] = clusterCenter(inst.cluster)
	}

	prev := centerRelaxed
	if len(instances) > 0 {
		prev = centerOf[instances[0].id]
	}

	for i := range t.notes {
		pn := &t.notes[i]
		if pn.note.Rest {
			continue
		}
		if pn.note.Mode == score.ModeTieContinue {
			pn.note.Pitch = theory.MIDIToPitch(prev)
			continue
		}

		center, ok := centerOf[pn.note.SectionID]
		if !ok {
			center = centerBright
		}
		candidate := prev + rng.Intn(5) - 2 + drift(prev, center)

		var midi int
		if triad, ok := chordAt[pn.measure]; ok && ts.IsStrongBeat(pn.pos) {
			midi = nearestPitchClassWithLeap(candidate, prev, pcSet(triad), theory.Soprano)
		} else {
			midi = constrainMelodicCandidate(candidate, prev, theory.Soprano, scaleMembers)
		}
		pn.note.Pitch = theory.MIDIToPitch(midi)
		prev = midi
	}
}

// drift nudges the walk back when it strays more than a third from the
// center.
func drift(prev, center int) int {
	switch {
	case prev < center-4:
		return 1
	case prev > center+4:
		return -1
	default:
		return 0
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
