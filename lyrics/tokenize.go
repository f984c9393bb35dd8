package lyrics

import (
	"fmt"
	"regexp"
	"strings"
)

// tokenRe captures words (with optional internal hyphen breaks), line
// breaks, and phrase-closing punctuation, in order of appearance.
var tokenRe = regexp.MustCompile(`[A-Za-z']+(?:-[A-Za-z']+)*|\n|[.,;?!]`)

// vowelGroupRe matches one onset+nucleus(+single coda) chunk; applied
// repeatedly it yields the heuristic syllable boundaries of a word.
var vowelGroupRe = regexp.MustCompile(`[^aeiouy]*[aeiouy]+(?:[^aeiouy]|$)`)

// phraseBreaks are the tokens that close the current phrase.
var phraseBreaks = map[string]bool{
	"\n": true, ".": true, ",": true, ";": true, "?": true, "!": true,
}

// Tokenize splits a section's raw text into ordered syllables.
//
// Word boundaries are whitespace-delimited; a hyphen inside a token is
// an explicit syllable break and marks all but the last part Hyphenated.
// Unhyphenated words pass through SplitWord. Line breaks and .,;?! set
// PhraseEnd on the preceding syllable. Empty text yields nil.
//
// Complexity: O(len(text)).
func Tokenize(sectionID, text string) []Syllable {
	tokens := tokenRe.FindAllString(text, -1)

	var out []Syllable
	counter := 0
	wordIndex := -1

	for i, tok := range tokens {
		if phraseBreaks[tok] {
			if len(out) > 0 {
				out[len(out)-1].PhraseEnd = true
			}

			continue
		}

		wordIndex++
		parts := strings.Split(tok, "-")
		for partIdx, part := range parts {
			sylls := SplitWord(part)
			for si, syl := range sylls {
				out = append(out, Syllable{
					ID:          fmt.Sprintf("%s-syl-%d", sectionID, counter),
					Text:        syl,
					SectionID:   sectionID,
					WordIndex:   wordIndex,
					IndexInWord: si,
					Word:        tok,
					Hyphenated:  len(parts) > 1 && partIdx < len(parts)-1,
					Stressed:    isStressed(syl, si, len(sylls)),
					PhraseEnd:   false,
				})
				counter++
			}
		}

		// Punctuation directly after the word also closes the phrase.
		if i+1 < len(tokens) && phraseBreaks[tokens[i+1]] {
			out[len(out)-1].PhraseEnd = true
		}
	}

	return out
}

// SplitWord applies the vowel-group heuristic to one word. Words of up
// to three characters stay whole; otherwise each vowel group (with its
// leading consonants and at most one trailing consonant) becomes one
// syllable, and any consonant tail sticks to the final syllable.
//
// Original casing is preserved; boundaries are computed on the
// lower-cased form.
func SplitWord(word string) []string {
	w := strings.ToLower(word)
	if len(w) <= 3 {
		if word == "" {
			return nil
		}

		return []string{word}
	}

	chunks := vowelGroupRe.FindAllString(w, -1)
	if len(chunks) == 0 {
		return []string{word}
	}

	var rebuilt []string
	cursor := 0
	for _, c := range chunks {
		end := cursor + len(c)
		if end > len(word) {
			end = len(word)
		}
		rebuilt = append(rebuilt, word[cursor:end])
		cursor = end
	}
	if cursor < len(word) {
		rebuilt[len(rebuilt)-1] += word[cursor:]
	}

	out := rebuilt[:0]
	for _, s := range rebuilt {
		if s != "" {
			out = append(out, s)
		}
	}

	return out
}

// isStressed is the deterministic stress heuristic: single-syllable
// words and word-initial syllables are stressed, as is any long
// (≥4 chars) later syllable.
func isStressed(syllable string, index, count int) bool {
	if count == 1 || index == 0 {
		return true
	}

	return len(syllable) >= 4
}

// ParseSections tokenizes several sections at once, keyed by section
// id. Sections whose text yields no syllables map to a nil slice.
func ParseSections(texts map[string]string) map[string][]Syllable {
	out := make(map[string][]Syllable, len(texts))
	for id, text := range texts {
		out[id] = Tokenize(id, text)
	}

	return out
}

// Blocks groups a section's syllables into one PhraseBlock per
// non-empty input line, preserving order. Lines containing no lyric
// tokens are dropped.
//
// Complexity: O(len(text)).
func Blocks(sectionID, text string) []PhraseBlock {
	var blocks []PhraseBlock
	counter := 0
	line := 0

	for _, raw := range strings.Split(text, "\n") {
		sylls := Tokenize(sectionID, raw)
		if len(sylls) == 0 {
			continue
		}

		// Re-number ids so they stay globally sequential in the section.
		for i := range sylls {
			sylls[i].ID = fmt.Sprintf("%s-syl-%d", sectionID, counter)
			counter++
		}
		// A line end always closes the phrase.
		sylls[len(sylls)-1].PhraseEnd = true

		blocks = append(blocks, PhraseBlock{Line: line, Syllables: sylls})
		line++
	}

	return blocks
}
