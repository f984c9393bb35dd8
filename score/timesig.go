package score

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadTimeSignature indicates a time signature outside the supported
// "N/M" shape (1 ≤ N ≤ 12, M ∈ {2, 4, 8, 16}).
var ErrBadTimeSignature = errors.New("score: malformed time signature")

// TimeSignature is a parsed meter.
type TimeSignature struct {
	// Numerator is the beat count per measure in denominator units.
	Numerator int `json:"numerator"`

	// Denominator is the note value that carries one count.
	Denominator int `json:"denominator"`
}

// ParseTimeSignature parses "N/M". Supported: 1 ≤ N ≤ 12 and
// M ∈ {2, 4, 8, 16}. Returns ErrBadTimeSignature otherwise.
func ParseTimeSignature(s string) (TimeSignature, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrBadTimeSignature, s)
	}
	num, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrBadTimeSignature, s)
	}
	den, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeSignature{}, fmt.Errorf("%w: %q", ErrBadTimeSignature, s)
	}
	if num < 1 || num > 12 {
		return TimeSignature{}, fmt.Errorf("%w: numerator %d", ErrBadTimeSignature, num)
	}
	switch den {
	case 2, 4, 8, 16:
	default:
		return TimeSignature{}, fmt.Errorf("%w: denominator %d", ErrBadTimeSignature, den)
	}

	return TimeSignature{Numerator: num, Denominator: den}, nil
}

// String renders the signature back to "N/M".
func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// BeatsPerMeasure is the measure capacity in quarter-note beats:
// numerator × 4 / denominator.
func (ts TimeSignature) BeatsPerMeasure() float64 {
	return float64(ts.Numerator) * 4 / float64(ts.Denominator)
}

// IsStrongBeat reports whether a quarter-note position inside a measure
// falls on a metrically strong beat: beats 1 and 3 in 4/4, the two
// dotted-quarter pulses in 6/8, every beat otherwise.
func (ts TimeSignature) IsStrongBeat(position float64) bool {
	quarterPos := position * float64(ts.Denominator) / 4
	if ts.Numerator == 4 {
		return math.Abs(math.Mod(quarterPos, 2)) < 1e-9
	}
	if ts.Numerator == 6 && ts.Denominator == 8 {
		return math.Abs(position) < 1e-9 || math.Abs(position-1.5) < 1e-9
	}

	return math.Abs(math.Mod(quarterPos, 1)) < 1e-9
}
