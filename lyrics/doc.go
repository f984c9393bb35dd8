// Package lyrics splits raw section text into ordered, stress-marked
// syllables and phrase blocks — the input units of rhythm planning.
//
// What:
//
//   - Tokenize: full section text → []Syllable with word boundaries,
//     explicit hyphen breaks, heuristic syllabification, stress marks
//     and phrase-end flags (line breaks and .,;?! close a phrase).
//   - Blocks: the same syllables grouped one block per non-empty line,
//     for arrangement-level phrase overrides.
//   - SplitWord: the vowel-group syllabification heuristic on its own.
//
// Why:
//
//   - Downstream stages must never re-derive lyric alignment; every
//     syllable carries a stable id ("<section>-syl-<n>") that the
//     generated score references and the validator reconciles.
//
// Determinism: output depends only on the input text; no clocks, no
// randomness. Empty or whitespace-only text yields zero syllables; the
// caller rejects such sections before scheduling them.
package lyrics
