package melody_test

import (
	"testing"

	"github.com/cantoria/cantoria/melody"
	"github.com/cantoria/cantoria/rhythm"
)

// benchmarkGenerate runs the full generation pipeline on a fixed
// two-section request with the given preset.
func benchmarkGenerate(b *testing.B, preset rhythm.Preset) {
	req := melody.Request{
		Sections: []melody.SectionInput{
			{ID: "v", Label: "verse", Text: "Amazing grace how sweet the sound\nthat saved a wretch like me"},
			{ID: "c", Label: "chorus", Text: "sing it out and let it ring"},
		},
		Preferences: melody.Preferences{
			Key:           "G",
			TimeSignature: "4/4",
			TempoBPM:      90,
			Preset:        preset,
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := melody.Generate(req); err != nil {
			b.Fatalf("Generate failed: %v", err)
		}
	}
}

// BenchmarkGenerate_Syllabic measures generation with minimal melisma.
func BenchmarkGenerate_Syllabic(b *testing.B) {
	benchmarkGenerate(b, rhythm.PresetSyllabic)
}

// BenchmarkGenerate_Melismatic measures generation with heavy melisma.
func BenchmarkGenerate_Melismatic(b *testing.B) {
	benchmarkGenerate(b, rhythm.PresetMelismatic)
}
