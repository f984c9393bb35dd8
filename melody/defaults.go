package melody

import (
	"hash/fnv"
	"math/rand"

	"github.com/cantoria/cantoria/rhythm"
)

// Style/mood-seeded fallbacks used when a preference field is empty.
var (
	defaultKeys           = []string{"C", "G", "D", "F", "Bb", "A"}
	defaultTimeSignatures = []string{"4/4", "3/4", "6/8"}
)

// newSeededRand derives a PRNG from a seed string via FNV-64a; same
// seed, same draw sequence.
func newSeededRand(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))

	return rand.New(rand.NewSource(int64(h.Sum64()))) //nolint:gosec // seeded PRNG, determinism is the contract
}

// resolveDefaults fills empty preference fields from the style/mood
// seed so that two requests with the same style and mood always land
// on the same key, meter, and tempo.
func resolveDefaults(p Preferences) Preferences {
	rng := newSeededRand("defaults|" + p.Style + "|" + p.Mood)

	key := defaultKeys[rng.Intn(len(defaultKeys))]
	ts := defaultTimeSignatures[rng.Intn(len(defaultTimeSignatures))]
	tempo := 68 + rng.Intn(49)

	if p.Key == "" {
		p.Key = key
	}
	if p.TimeSignature == "" {
		p.TimeSignature = ts
	}
	if p.TempoBPM == 0 {
		p.TempoBPM = tempo
	}
	if p.Preset == "" {
		p.Preset = rhythm.PresetMixed
	}

	return p
}
