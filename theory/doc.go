// Package theory provides the elementary music-theory primitives the
// composition pipeline is built on: pitch↔MIDI conversion, diatonic
// scales, key parsing, triad construction, and the hard SATB vocal
// ranges with their comfortable tessitura bands.
//
// What:
//
//   - Pitch spelling ("F#4") ↔ MIDI number (66) conversion.
//   - Scale: tonic + major/minor quality, with its seven pitch classes.
//   - ParseKey: tonic+accidental+optional-"m" keys, mode-aware
//     ("dorian"/"aeolian"/… force the minor pattern).
//   - TriadPitchClasses / ChordSymbol: diatonic triads by scale degree.
//   - Voice: enumerated Soprano/Alto/Tenor/Bass with HardRange and
//     Tessitura lookups, plus NearestInRange octave folding.
//
// Why:
//
//   - Every stage (rhythm, melody, SATB, validation) shares one source
//     of truth for pitch arithmetic and range limits, so an invariant
//     checked by the validator means the same thing the generator meant.
//
// Errors:
//
//   - ErrBadPitch: pitch spelling cannot be parsed.
//   - ErrBadKey: key string has an unknown tonic.
//
// All functions are pure and allocation-light; no global mutable state.
package theory
