package commands

import (
	"github.com/spf13/cobra"

	cantoria "github.com/cantoria/cantoria"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a saved score as MusicXML",
	Long: `Render a saved score as partwise MusicXML 3.1, one part per
voice, with lyrics, chord symbols and tempo marking.

Examples:
  cantoria export -f satb.json -o arrangement.musicxml
  cantoria export -f melody.json > melody.musicxml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScore()
		if err != nil {
			return err
		}

		xml, err := cantoria.ExportMusicXML(sc)
		if err != nil {
			return err
		}

		return writeOutput(xml)
	},
}
