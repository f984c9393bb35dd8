// Package score defines the canonical score — the single, strictly
// typed representation every pipeline stage produces and every
// downstream consumer (rendering, playback, export) reads.
//
// What:
//
//   - CanonicalScore: meta, lyric sections, arrangement, measures with
//     per-voice note lists, and the per-measure chord progression.
//   - Note: pitch or rest, duration in beats, owning section, lyric
//     syllable and LyricMode tag (sum type: None/Single/TieContinue/
//     Melisma/Subdivision).
//   - TimeSignature: parsed "N/M" with BeatsPerMeasure and strong-beat
//     positions.
//   - Measure: numbered, with an optional anacrusis Pickup that
//     shortens its capacity.
//   - PackMeasures: lays flat per-voice note streams into measures,
//     splitting notes at barlines into tie continuations and padding
//     underfull measures with rests.
//
// Why:
//
//   - Invalid intermediate states should be unrepresentable where
//     feasible: rests cannot carry lyrics (NewNote/NewRest enforce it),
//     voices are an enum, lyric modes are a closed set. The validator
//     package re-checks the rest at every stage boundary.
//
// Invariants carried by this model (enforced by package validate):
//
//  1. Per measure and voice, note beats sum exactly to the measure
//     capacity (time signature minus any declared anacrusis pickup).
//  2. Voices are ordered soprano ≥ alto ≥ tenor ≥ bass, with at most an
//     octave between soprano–alto and alto–tenor when both sound.
//  3. Every parsed syllable lands on exactly one non-rest,
//     non-continuation note.
//  4. Continuation chains trace back to one originating syllable note.
//
// Errors:
//
//   - ErrBadTimeSignature: "N/M" out of the supported shape.
//   - ErrRestWithLyric: attempt to construct a rest carrying a lyric.
package score
