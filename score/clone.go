package score

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/cantoria/cantoria/lyrics"
	"github.com/cantoria/cantoria/theory"
)

// Clone returns a deep copy. Pipeline stages never mutate an accepted
// draft in place; every refinement works on a clone and yields a new
// score value.
func (sc *CanonicalScore) Clone() *CanonicalScore {
	out := &CanonicalScore{
		Meta:             sc.Meta,
		Sections:         make([]Section, len(sc.Sections)),
		Arrangement:      append([]ArrangementItem(nil), sc.Arrangement...),
		Measures:         make([]Measure, len(sc.Measures)),
		ChordProgression: append([]Chord(nil), sc.ChordProgression...),
	}

	for i, s := range sc.Sections {
		cp := s
		cp.Syllables = append([]lyrics.Syllable(nil), s.Syllables...)
		out.Sections[i] = cp
	}
	for i, item := range sc.Arrangement {
		out.Arrangement[i].Phrases = append([]PhraseOverride(nil), item.Phrases...)
	}
	for i, m := range sc.Measures {
		cp := Measure{Number: m.Number, Pickup: m.Pickup, Voices: make(map[theory.Voice][]Note, len(m.Voices))}
		for v, notes := range m.Voices {
			cp.Voices[v] = append([]Note(nil), notes...)
		}
		out.Measures[i] = cp
	}

	return out
}

// Fingerprint is a deterministic content hash of the score, suitable as
// a cache key for rendered artifacts. Any mutation changes the
// fingerprint, so external caches invalidate for free.
func (sc *CanonicalScore) Fingerprint() string {
	// json.Marshal sorts map keys, so encoding is stable for equal scores.
	raw, err := json.Marshal(sc)
	if err != nil {
		// The model contains no unmarshalable types; treat as unreachable.
		return ""
	}
	sum := sha256.Sum256(raw)

	return hex.EncodeToString(sum[:])
}
