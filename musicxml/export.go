package musicxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/theory"
)

// ErrBadScore indicates a score the exporter cannot render, such as an
// unparseable pitch or key.
var ErrBadScore = errors.New("musicxml: score not exportable")

// divisions is the MusicXML quarter-note subdivision; 4 keeps every
// half- and quarter-beat duration integral.
const divisions = 4

const header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN"
  "http://www.musicxml.org/dtds/partwise.dtd">
`

// fifthsByTonic is the circle-of-fifths position of each major tonic.
var fifthsByTonic = map[string]int{
	"C": 0, "G": 1, "D": 2, "A": 3, "E": 4, "B": 5, "F#": 6, "C#": 7,
	"F": -1, "Bb": -2, "Eb": -3, "Ab": -4, "Db": -5, "Gb": -6,
}

type scorePartwise struct {
	XMLName  xml.Name  `xml:"score-partwise"`
	Version  string    `xml:"version,attr"`
	PartList scoreList `xml:"part-list"`
	Parts    []part    `xml:"part"`
}

type scoreList struct {
	ScoreParts []scorePart `xml:"score-part"`
}

type scorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type part struct {
	ID       string    `xml:"id,attr"`
	Measures []measure `xml:"measure"`
}

type measure struct {
	Number     int         `xml:"number,attr"`
	Implicit   string      `xml:"implicit,attr,omitempty"`
	Attributes *attributes `xml:"attributes,omitempty"`
	Direction  *direction  `xml:"direction,omitempty"`
	Harmony    *harmony    `xml:"harmony,omitempty"`
	Notes      []note      `xml:"note"`
}

type attributes struct {
	Divisions int      `xml:"divisions"`
	Key       keyElem  `xml:"key"`
	Time      timeElem `xml:"time"`
	Clef      clef     `xml:"clef"`
}

type keyElem struct {
	Fifths int `xml:"fifths"`
}

type timeElem struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type clef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type direction struct {
	Placement string    `xml:"placement,attr"`
	Metronome metronome `xml:"direction-type>metronome"`
}

type metronome struct {
	BeatUnit  string `xml:"beat-unit"`
	PerMinute int    `xml:"per-minute"`
}

type harmony struct {
	Root   harmonyRoot `xml:"root"`
	Kind   string      `xml:"kind"`
	Degree *degreeElem `xml:"degree,omitempty"`
}

type harmonyRoot struct {
	Step  string `xml:"root-step"`
	Alter *int   `xml:"root-alter,omitempty"`
}

type degreeElem struct {
	Value int `xml:"degree-value"`
}

type note struct {
	Rest     *struct{}  `xml:"rest,omitempty"`
	Pitch    *pitchElem `xml:"pitch,omitempty"`
	Duration int        `xml:"duration"`
	Ties     []tie      `xml:"tie,omitempty"`
	Type     string     `xml:"type,omitempty"`
	Lyric    *lyricElem `xml:"lyric,omitempty"`
}

type pitchElem struct {
	Step   string `xml:"step"`
	Alter  *int   `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type tie struct {
	Type string `xml:"type,attr"`
}

type lyricElem struct {
	Syllabic string `xml:"syllabic"`
	Text     string `xml:"text"`
}

// Export renders a canonical score as partwise MusicXML 3.1: four
// parts (soprano and alto on treble clef, tenor and bass on bass
// clef), per-document attributes on the first measure, metronome mark,
// lead-sheet harmony on the soprano part, soprano lyrics with syllabic
// markers, and ties over continuation notes. Works for both melody and
// SATB stages; in a melody-stage score the lower parts render as rest
// measures.
func Export(sc *score.CanonicalScore) ([]byte, error) {
	scale, err := theory.ParseKey(sc.Meta.Key, sc.Meta.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadScore, err)
	}

	voiceParts := []struct {
		voice theory.Voice
		id    string
	}{
		{theory.Soprano, "P1"},
		{theory.Alto, "P2"},
		{theory.Tenor, "P3"},
		{theory.Bass, "P4"},
	}

	doc := scorePartwise{Version: "3.1"}
	for _, vp := range voiceParts {
		doc.PartList.ScoreParts = append(doc.PartList.ScoreParts, scorePart{
			ID:       vp.id,
			PartName: titleCase(vp.voice.String()),
		})
	}

	chordAt := sc.ChordByMeasure()
	wordShape := wordShapes(sc)

	for _, vp := range voiceParts {
		p := part{ID: vp.id}
		for _, m := range sc.Measures {
			xm := measure{Number: m.Number}
			if m.Pickup > 0 {
				xm.Implicit = "yes"
			}
			if m.Number == 1 {
				xm.Attributes = &attributes{
					Divisions: divisions,
					Key:       keyElem{Fifths: fifths(scale)},
					Time:      timeElem{Beats: sc.Meta.Time.Numerator, BeatType: sc.Meta.Time.Denominator},
					Clef:      clefFor(vp.voice),
				}
				if vp.voice == theory.Soprano {
					xm.Direction = &direction{
						Placement: "above",
						Metronome: metronome{BeatUnit: "quarter", PerMinute: sc.Meta.TempoBPM},
					}
				}
			}
			if vp.voice == theory.Soprano {
				if ch, ok := chordAt[m.Number]; ok {
					xm.Harmony = chordHarmony(ch)
				}
			}

			notes := m.Voices[vp.voice]
			for ni, n := range notes {
				xn, err := renderNote(n, vp.voice, nextNote(sc, vp.voice, m.Number, ni), wordShape)
				if err != nil {
					return nil, err
				}
				xm.Notes = append(xm.Notes, xn)
			}
			p.Measures = append(p.Measures, xm)
		}
		doc.Parts = append(doc.Parts, p)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadScore, err)
	}

	return append([]byte(header), append(body, '\n')...), nil
}

// fifths maps the scale to its key-signature position; minor keys use
// the relative major's signature.
func fifths(s theory.Scale) int {
	f, ok := fifthsByTonic[s.Tonic]
	if !ok {
		return 0
	}
	if s.Minor {
		f -= 3
	}

	return f
}

func clefFor(v theory.Voice) clef {
	if v == theory.Soprano || v == theory.Alto {
		return clef{Sign: "G", Line: 2}
	}

	return clef{Sign: "F", Line: 4}
}

func chordHarmony(ch score.Chord) *harmony {
	h := &harmony{
		Root:   harmonyRoot{Step: ch.Symbol[:1]},
		Kind:   "major",
		Degree: &degreeElem{Value: ch.Degree},
	}
	switch {
	case strings.HasSuffix(ch.Symbol, "dim"):
		h.Kind = "diminished"
	case strings.HasSuffix(ch.Symbol, "m"):
		h.Kind = "minor"
	}
	if strings.Contains(ch.Symbol, "#") {
		one := 1
		h.Root.Alter = &one
	}
	if strings.Contains(ch.Symbol, "b") {
		minusOne := -1
		h.Root.Alter = &minusOne
	}

	return h
}

// renderNote converts one score note; next is the following note in
// the same voice (nil at the end), used for tie starts.
func renderNote(n score.Note, v theory.Voice, next *score.Note, wordShape map[string]syllableShape) (note, error) {
	dur := int(n.Beats*divisions + 0.5)
	if dur < 1 {
		dur = 1
	}
	xn := note{Duration: dur, Type: noteType(n.Beats)}

	if n.Rest {
		xn.Rest = &struct{}{}

		return xn, nil
	}

	p, err := parsePitch(n.Pitch)
	if err != nil {
		return note{}, err
	}
	xn.Pitch = p

	if n.Mode == score.ModeTieContinue {
		xn.Ties = append(xn.Ties, tie{Type: "stop"})
	}
	if next != nil && !next.Rest && next.Mode == score.ModeTieContinue && next.SyllableID == n.SyllableID {
		xn.Ties = append(xn.Ties, tie{Type: "start"})
	}

	if v == theory.Soprano && n.Lyric != "" {
		shape := wordShape[n.SyllableID]
		xn.Lyric = &lyricElem{Syllabic: shape.syllabic(), Text: n.Lyric}
	}

	return xn, nil
}

// noteType maps a beat length onto the closest notated value.
func noteType(beats float64) string {
	switch {
	case beats >= 4:
		return "whole"
	case beats >= 2:
		return "half"
	case beats >= 1:
		return "quarter"
	case beats >= 0.5:
		return "eighth"
	default:
		return "16th"
	}
}

// parsePitch splits a spelled pitch like "F#4" into MusicXML fields.
func parsePitch(pitch string) (*pitchElem, error) {
	if pitch == "" {
		return nil, fmt.Errorf("%w: empty pitch on sounding note", ErrBadScore)
	}

	step := strings.ToUpper(pitch[:1])
	rest := pitch[1:]
	var alter int
	switch {
	case strings.HasPrefix(rest, "#"):
		alter, rest = 1, rest[1:]
	case strings.HasPrefix(rest, "b"):
		alter, rest = -1, rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return nil, fmt.Errorf("%w: pitch %q", ErrBadScore, pitch)
	}

	p := &pitchElem{Step: step, Octave: octave}
	if alter != 0 {
		a := alter
		p.Alter = &a
	}

	return p, nil
}

// syllableShape captures where a syllable sits inside its word.
type syllableShape struct {
	first bool
	last  bool
}

func (s syllableShape) syllabic() string {
	switch {
	case s.first && s.last:
		return "single"
	case s.first:
		return "begin"
	case s.last:
		return "end"
	default:
		return "middle"
	}
}

// wordShapes indexes every section syllable by id with its position in
// the word, for syllabic markers.
func wordShapes(sc *score.CanonicalScore) map[string]syllableShape {
	out := make(map[string]syllableShape, 64)
	for _, sec := range sc.Sections {
		for i, syl := range sec.Syllables {
			next := i + 1
			out[syl.ID] = syllableShape{
				first: syl.IndexInWord == 0,
				last:  next == len(sec.Syllables) || sec.Syllables[next].IndexInWord == 0,
			}
		}
	}

	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// nextNote returns the note after index ni of the voice, looking into
// the following measure when needed.
func nextNote(sc *score.CanonicalScore, v theory.Voice, measureNumber, ni int) *score.Note {
	for mi := range sc.Measures {
		if sc.Measures[mi].Number != measureNumber {
			continue
		}
		notes := sc.Measures[mi].Voices[v]
		if ni+1 < len(notes) {
			return &notes[ni+1]
		}
		for mj := mi + 1; mj < len(sc.Measures); mj++ {
			nn := sc.Measures[mj].Voices[v]
			if len(nn) > 0 {
				return &nn[0]
			}
		}

		return nil
	}

	return nil
}
