// Package satb turns a melody-stage score into a four-part choral
// arrangement.
//
// What: Harmonize keeps the soprano untouched and derives alto, tenor,
// and bass as chord tones of each measure's progression entry, chosen
// for smooth voice leading under hard ranges, S≥A≥T≥B ordering,
// octave spacing between adjacent upper voices, and bounded melodic
// leaps. A final pass detects parallel perfect fifths and octaves
// against the soprano and nudges the offending voice onto another
// chord tone; a leap repair then re-snaps any line the voicing pushed
// beyond the melodic bound. Spots the passes cannot fix are reported,
// not hidden, and a result the validator rejects is withheld entirely.
//
// Why: block chord-tone harmony is deterministic and always singable,
// which keeps the harmonize step a pure function of the melody draft —
// the same melody always yields the same four parts.
//
// Errors: ErrNotMelody when the input is not a melody-stage score;
// ErrHarmonizeInvalid when no repair produces a validator-clean result.
//
// Complexity: O(notes) per call.
package satb
