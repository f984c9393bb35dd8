// Package validate checks a canonical score against the structural
// invariants of choral writing.
//
// What: a single pure entry point, ValidateScore, walks a
// score.CanonicalScore and collects every defect it can find into a
// Report of localized Issues. Errors mark broken invariants (measure
// timing, chord coverage, lyric coverage, hard ranges, voice order);
// warnings mark taste-level defects (tessitura drift, wide spacing,
// parallel perfect intervals) a caller may accept.
//
// Why: the generation pipeline converges by looping
// generate → validate → repair, so the validator must report all
// issues at once rather than failing fast, and must never mutate its
// input.
//
// Complexity: O(notes + chords) per call, no allocation beyond the
// report.
package validate
