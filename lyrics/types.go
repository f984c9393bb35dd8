package lyrics

// Syllable is one singable unit of lyric text. IDs are stable within a
// section: "<sectionID>-syl-<n>" with n counting from zero in text order.
type Syllable struct {
	// ID is the stable identifier the score's notes reference.
	ID string

	// Text is the syllable as it appears under the note.
	Text string

	// SectionID names the owning section instance.
	SectionID string

	// WordIndex is the zero-based index of the parent word in the section.
	WordIndex int

	// IndexInWord is the zero-based position of this syllable in its word.
	IndexInWord int

	// Word is the full parent token, hyphens included.
	Word string

	// Hyphenated marks a syllable followed by an explicit hyphen break.
	Hyphenated bool

	// Stressed marks syllables the rhythm policy may pull to strong beats.
	Stressed bool

	// PhraseEnd marks the last syllable before a line break or
	// phrase-closing punctuation.
	PhraseEnd bool
}

// PhraseBlock is one lyric line's worth of syllables, in text order.
// Arrangement-level overrides (barline alignment, breaths, merging)
// address phrases by their Line index.
type PhraseBlock struct {
	// Line is the zero-based index among the section's non-empty lines.
	Line int

	// Syllables are the line's syllables in order.
	Syllables []Syllable
}
