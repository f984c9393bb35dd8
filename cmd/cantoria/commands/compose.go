package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cantoria "github.com/cantoria/cantoria"
	"github.com/cantoria/cantoria/melody"
)

var composeSATB bool

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Generate a score from a lyric request",
	Long: `Generate a melody-stage score from a lyric request, optionally
harmonizing it into four parts with --satb.

Example request file (request.yaml):
  sections:
    - id: v1
      label: verse
      text: |
        Amazing grace how sweet the sound
        That saved a wretch like me
    - id: c1
      label: chorus
      text: Praise the Lord, praise the Lord
  preferences:
    key: G
    time_signature: "4/4"
    tempo_bpm: 90
    lyric_rhythm_preset: mixed

Examples:
  cantoria compose -f request.yaml -o melody.json
  cantoria compose -f request.yaml --satb -o satb.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireInputFile(); err != nil {
			return err
		}

		var req melody.Request
		if err := loadFile(inputFile, &req); err != nil {
			return err
		}

		sc, err := cantoria.ComposeMelody(req)
		if err != nil {
			return err
		}

		if composeSATB {
			harmonized, notes, err := cantoria.Harmonize(sc)
			if err != nil {
				return err
			}
			sc = harmonized
			if !asJSON {
				fmt.Fprintf(os.Stderr, "%s %d events harmonized\n",
					dimStyle.Render("satb"), notes.Harmonized)
			}
		}

		if !asJSON {
			fmt.Fprint(os.Stderr, renderSummary(sc))
		}

		return writeScore(sc)
	},
}

func init() {
	composeCmd.Flags().BoolVar(&composeSATB, "satb", false, "harmonize the melody into four parts")
}
