// Package musicxml renders a canonical score as partwise MusicXML 3.1
// for engraving tools and notation editors.
//
// The document carries four parts with SATB clefs, the key signature
// on the circle of fifths, the meter, a metronome mark, lead-sheet
// harmony symbols on the soprano part, soprano lyrics with syllabic
// begin/middle/end markers, and ties across continuation notes.
// Output is deterministic: the same score always yields the same bytes.
package musicxml
