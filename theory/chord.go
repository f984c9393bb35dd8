package theory

// TriadPitchClasses builds the diatonic triad on a scale degree (1..7)
// by stacking thirds within the scale. Degrees outside 1..7 wrap.
//
// Complexity: O(1).
func TriadPitchClasses(s Scale, degree int) [3]int {
	idx := ((degree-1)%7 + 7) % 7
	semis := s.Semitones()

	return [3]int{semis[idx], semis[(idx+2)%7], semis[(idx+4)%7]}
}

// ChordSymbol renders the diatonic triad on a scale degree as a lead-sheet
// symbol, e.g. degree 6 in C major → "Am", degree 7 → "Bdim".
//
// Complexity: O(1).
func ChordSymbol(s Scale, degree int) string {
	idx := ((degree-1)%7 + 7) % 7
	root := semitoneToNote[s.Semitones()[idx]]
	qualities := majorTriadQualities
	if s.Minor {
		qualities = minorTriadQualities
	}

	return root + qualities[idx]
}
