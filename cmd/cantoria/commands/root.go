package commands

import (
	"github.com/spf13/cobra"
)

var (
	inputFile  string
	outputFile string
	asJSON     bool
)

var rootCmd = &cobra.Command{
	Use:   "cantoria",
	Short: "Deterministic choir arrangement composer",
	Long: `cantoria turns plain lyric text into a validated choir score.

The pipeline runs lyric tokenization, rhythm planning, melody
generation, optional SATB harmonization and invariant validation,
and exports partwise MusicXML. The same request always produces the
same score.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request or score file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "emit machine-readable JSON instead of styled text")

	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
}
