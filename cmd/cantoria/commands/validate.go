package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	cantoria "github.com/cantoria/cantoria"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the invariant checks over a saved score",
	Long: `Run the full structural and musical invariant checks over a
saved score: measure timing, chord coverage, lyric coverage, voice
ranges and leaps, SATB ordering and spacing, and parallel motion.

Exits non-zero when any error-severity issue is found; warnings
alone still exit zero.

Examples:
  cantoria validate -f satb.json
  cantoria validate -f satb.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScore()
		if err != nil {
			return err
		}

		report := cantoria.Validate(sc)
		if err := renderReport(report); err != nil {
			return err
		}

		if !report.OK() {
			return fmt.Errorf("score has %d error(s)", len(report.Errors()))
		}

		return nil
	},
}
