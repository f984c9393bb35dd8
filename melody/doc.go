// Package melody generates and refines the soprano line of a canonical
// score from lyric sections, an arrangement, and user preferences.
//
// What:
//
//   - Generate: sections + arrangement + preferences → a fresh
//     CanonicalScore with the soprano populated, a per-measure diatonic
//     chord progression, and exact beat accounting per measure
//     (anacrusis pickups included).
//   - Refine: instruction-directed smoothing of an existing melody that
//     preserves lyric mapping, rhythm, and measure count.
//   - Regenerate (Refine with regenerate=true): re-derives pitches only
//     for the arranged positions whose cluster is selected, leaving
//     every other section's notes byte-identical.
//
// How (pipeline inside Generate):
//
//  1. Expand the arrangement (every item must reference a known
//     section) and tokenize each instance's lyrics.
//  2. Plan rhythm spans per instance (package rhythm), apply phrase
//     overrides (merges, breaths, forced barline ends) and resolve the
//     anacrusis pickup schedule.
//  3. Derive per-cluster chord cycles and lay the progression over the
//     instance's measure range.
//  4. Assign soprano pitches: bounded steps (≤7 semitones), tessitura
//     nudging, scale snapping, strong-beat chord-tone conformance.
//  5. Pack measures, validate; on failure run auto-repair passes and
//     retry with a perturbed seed, up to five attempts, then fail
//     closed with ErrGenerationExhausted — a broken score is never
//     returned.
//
// Determinism: all choices flow from PRNGs seeded by the generation
// inputs; identical requests produce byte-identical scores.
//
// Errors:
//
//   - ErrUnknownSection: arrangement references a missing section id.
//   - ErrNoSections: request carries no sections.
//   - ErrEmptySection: a scheduled section has no syllables.
//   - ErrGenerationExhausted: no attempt produced a score the validator accepts.
//   - ErrWrongStage: refinement of a non-melody score.
//   - ErrRefineInvalid: a refinement produced a score the validator
//     rejects (fail closed).
package melody
