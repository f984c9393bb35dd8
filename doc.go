// Package cantoria composes deterministic four-part choir arrangements
// from plain lyrics — tokenizing, rhythm planning, melody generation,
// SATB harmonization, validation and MusicXML export, all converging on
// one canonical score.
//
// 🚀 What is cantoria?
//
//	A pure-Go composition pipeline that brings together:
//		• Lyric parsing: hyphen-aware syllabification with stress marks
//		• Rhythm policies: syllabic / mixed / melismatic presets per section
//		• Melody generation: seeded contour walk over diatonic progressions
//		• SATB harmonization: chord-tone block harmony with parallel cleanup
//		• Validation: every invariant checked at once, never fail-fast
//		• Drafts: bounded session history with version rollback
//		• Export: partwise MusicXML 3.1 for engraving tools
//
// ✨ Why choose cantoria?
//
//   - Deterministic – identical requests yield byte-identical scores
//   - Fails closed – no score is ever returned with broken invariants
//   - Pure Go – no cgo, no audio stack, no hidden services
//   - Composable – each stage is a plain function over the canonical score
//
// Under the hood, everything is organized under focused subpackages:
//
//	theory/   — pitches, scales, triads, voice ranges
//	lyrics/   — tokenizer, syllable splitter, phrase blocks
//	score/    — the canonical score model, packing, fingerprints
//	rhythm/   — presets and the deterministic rhythm planner
//	melody/   — soprano generation, refinement, partial regeneration
//	satb/     — four-part harmonization and re-harmonization
//	validate/ — the invariant checker and its issue report
//	session/  — bounded draft history with version selection
//	musicxml/ — partwise MusicXML 3.1 export
//
// The functions in this package are the boundary: they validate request
// fields up front (collecting every problem, tagged by field) and then
// route into the pipeline stages.
//
//	go get github.com/cantoria/cantoria
package cantoria
