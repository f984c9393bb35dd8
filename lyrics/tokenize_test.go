// Package lyrics_test checks syllabification, stress marking, phrase
// ends and block grouping on representative lyric fragments.
package lyrics_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantoria/cantoria/lyrics"
)

func texts(sylls []lyrics.Syllable) []string {
	out := make([]string, len(sylls))
	for i, s := range sylls {
		out[i] = s.Text
	}

	return out
}

func TestSplitWord(t *testing.T) {
	cases := []struct {
		word string
		want []string
	}{
		{"the", []string{"the"}},
		{"sound", []string{"sound"}},
		{"amazing", []string{"am", "az", "ing"}},
		{"grace", []string{"grac", "e"}},
		{"hallelujah", []string{"hal", "lel", "uj", "ah"}},
		{"", nil},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, lyrics.SplitWord(tc.word), "word %q", tc.word)
	}
}

func TestTokenize_SimpleLine(t *testing.T) {
	sylls := lyrics.Tokenize("sec-1", "Amazing grace how sweet the sound")

	require.NotEmpty(t, sylls)
	assert.Equal(t, "sec-1-syl-0", sylls[0].ID)
	assert.Equal(t, "sec-1", sylls[0].SectionID)

	// Word boundaries survive: "grace" splits but keeps one WordIndex.
	byWord := map[int][]string{}
	for _, s := range sylls {
		byWord[s.WordIndex] = append(byWord[s.WordIndex], s.Text)
	}
	require.Len(t, byWord, 6)
	assert.Equal(t, []string{"how"}, byWord[2])
	assert.Equal(t, []string{"the"}, byWord[4])

	// Sequential ids with no gaps.
	for i, s := range sylls {
		require.Equal(t, fmt.Sprintf("sec-1-syl-%d", i), s.ID)
	}

	// No phrase break inside the line, none at the end without punctuation.
	for _, s := range sylls[:len(sylls)-1] {
		require.False(t, s.PhraseEnd, "syllable %q", s.Text)
	}
}

func TestTokenize_Hyphenation(t *testing.T) {
	sylls := lyrics.Tokenize("s", "hal-le-lu-jah")

	require.Equal(t, []string{"hal", "le", "lu", "jah"}, texts(sylls))
	for i, s := range sylls {
		assert.Equal(t, 0, s.WordIndex)
		assert.Equal(t, "hal-le-lu-jah", s.Word)
		assert.Equal(t, i < len(sylls)-1, s.Hyphenated, "part %d", i)
	}
}

func TestTokenize_PhraseEnds(t *testing.T) {
	sylls := lyrics.Tokenize("s", "one two,\nthree four.")

	var ends []string
	for _, s := range sylls {
		if s.PhraseEnd {
			ends = append(ends, s.Text)
		}
	}
	require.Equal(t, []string{"two", "four"}, ends)
}

func TestTokenize_Stress(t *testing.T) {
	sylls := lyrics.Tokenize("s", "amazing day")

	// Word-initial syllables and single-syllable words are stressed.
	require.Equal(t, []string{"am", "az", "ing", "day"}, texts(sylls))
	assert.True(t, sylls[0].Stressed)
	assert.False(t, sylls[1].Stressed)
	assert.False(t, sylls[2].Stressed)
	assert.True(t, sylls[3].Stressed)
}

func TestTokenize_EmptyText(t *testing.T) {
	require.Nil(t, lyrics.Tokenize("s", ""))
	require.Nil(t, lyrics.Tokenize("s", "   \n\t  \n"))
	require.Nil(t, lyrics.Tokenize("s", "... !!"))
}

func TestBlocks(t *testing.T) {
	blocks := lyrics.Blocks("s", "Amazing grace\n\nhow sweet\n")

	require.Len(t, blocks, 2)
	assert.Equal(t, 0, blocks[0].Line)
	assert.Equal(t, 1, blocks[1].Line)

	// Ids stay globally sequential across blocks.
	var ids []string
	for _, b := range blocks {
		require.True(t, b.Syllables[len(b.Syllables)-1].PhraseEnd,
			"line %d must close its phrase", b.Line)
		for _, s := range b.Syllables {
			ids = append(ids, s.ID)
		}
	}
	joined := lyrics.Tokenize("s", "Amazing grace how sweet")
	require.Len(t, ids, len(joined))
	for i, id := range ids {
		require.Equal(t, joined[i].ID, id)
	}
}

func TestTokenize_Determinism(t *testing.T) {
	a := lyrics.Tokenize("sec-1", "Amazing grace how sweet the sound")
	b := lyrics.Tokenize("sec-1", "Amazing grace how sweet the sound")
	require.Equal(t, a, b)
}
