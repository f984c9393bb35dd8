package rhythm

import (
	"fmt"
	"strings"
)

// archetypes recognized by Archetype, in match-priority order.
var knownArchetypes = []string{"chorus", "verse", "bridge", "intro", "outro"}

// Archetype folds a free-form section label onto one of the canonical
// archetypes: verse, chorus, bridge, pre-chorus, intro, outro, or
// "custom" when nothing matches. Matching is case-insensitive and
// substring-based, so "Chorus 2" and "final-chorus" both read as chorus.
func Archetype(sectionLabel string) string {
	normalized := strings.ToLower(strings.TrimSpace(sectionLabel))
	switch normalized {
	case "verse", "chorus", "bridge", "pre-chorus", "intro", "outro":
		return normalized
	}
	if strings.Contains(normalized, "pre") && strings.Contains(normalized, "chorus") {
		return "pre-chorus"
	}
	for _, a := range knownArchetypes {
		if strings.Contains(normalized, a) {
			return a
		}
	}

	return "custom"
}

// ConfigForPreset resolves a preset against a section label into a
// concrete policy. Base values per preset:
//
//	syllabic   — melisma 0.08, subdivision 0.08, hold 1.5
//	mixed      — melisma 0.22, subdivision 0.18, hold 1.5
//	melismatic — melisma 0.42, subdivision 0.22, hold 2.0
//
// The chorus archetype tolerates more extension (+0.08 melisma, +0.25
// hold, capped at 2.0); verse and bridge pull melisma back by 0.05.
// The returned config has an empty Seed; callers fill it in.
func ConfigForPreset(preset Preset, sectionLabel string) (PolicyConfig, error) {
	var base PolicyConfig
	switch preset {
	case PresetSyllabic:
		base = PolicyConfig{MelismaRate: 0.08, SubdivisionRate: 0.08, PhraseEndHoldBeats: 1.5, PreferStrongBeatForStress: true}
	case PresetMixed:
		base = PolicyConfig{MelismaRate: 0.22, SubdivisionRate: 0.18, PhraseEndHoldBeats: 1.5, PreferStrongBeatForStress: true}
	case PresetMelismatic:
		base = PolicyConfig{MelismaRate: 0.42, SubdivisionRate: 0.22, PhraseEndHoldBeats: 2.0, PreferStrongBeatForStress: true}
	default:
		return PolicyConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}

	switch Archetype(sectionLabel) {
	case "chorus":
		base.MelismaRate = min(1.0, base.MelismaRate+0.08)
		base.PhraseEndHoldBeats = min(2.0, base.PhraseEndHoldBeats+0.25)
	case "verse", "bridge":
		base.MelismaRate = max(0.0, base.MelismaRate-0.05)
	}

	return base, nil
}
