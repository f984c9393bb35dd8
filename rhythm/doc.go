// Package rhythm maps parsed syllables onto rhythmic spans under a
// deterministic, policy-as-data configuration.
//
// What:
//
//   - PolicyConfig: melisma rate, subdivision rate, phrase-end hold
//     beats, strong-beat preference for stressed syllables, and the
//     seed string that makes the rate thresholds deterministic.
//   - ConfigForPreset: resolves a user preset (syllabic / mixed /
//     melismatic) against the section archetype (verse, chorus, …)
//     into a concrete config.
//   - PlanSyllableRhythm: one Span per syllable, each holding its beat
//     durations and lyric-mode classification (single, melisma,
//     subdivision, tie continuation for holds).
//
// Why:
//
//   - The melody generator must never improvise timing: every beat a
//     note occupies is decided here, and identical (syllables, config,
//     meter) input yields byte-identical spans. The rate parameters
//     keep their probability-like framing but resolve through a PRNG
//     seeded from the config's Seed string — no clock, no global state.
//
// Errors:
//
//   - ErrUnknownPreset: preset outside the syllabic/mixed/melismatic set.
//   - ErrBadMeter: non-positive beats-per-bar.
package rhythm
