package cantoria_test

import (
	"fmt"

	cantoria "github.com/cantoria/cantoria"
	"github.com/cantoria/cantoria/melody"
)

// Scenario:
//
//	One verse of lyric text, explicit key / meter / tempo, syllabic
//	rhythm. The same request always yields the same score, so the
//	validation verdict is stable.
//
// ExampleComposeMelody generates a melody-stage draft and validates it.
func ExampleComposeMelody() {
	req := melody.Request{
		Sections: []melody.SectionInput{
			{ID: "v1", Label: "verse", Text: "Amazing grace how sweet the sound"},
		},
		Preferences: melody.Preferences{
			Key:           "C",
			TimeSignature: "4/4",
			TempoBPM:      90,
			Preset:        "syllabic",
		},
	}

	sc, err := cantoria.ComposeMelody(req)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	fmt.Printf("key=%s stage=%s valid=%t\n", sc.Meta.Key, sc.Meta.Stage, cantoria.Validate(sc).OK())
	// Output:
	// key=C stage=melody valid=true
}
