package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cantoria "github.com/cantoria/cantoria"
	"github.com/cantoria/cantoria/score"
)

var (
	refineInstruction string
	refineRegenerate  bool
	refineUnits       []string
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a saved draft with an instruction",
	Long: `Refine a saved score. Adjustment mode nudges existing pitches by
the instruction's direction ("brighter", "darker"); --regenerate
re-derives pitches instead, optionally scoped with --units to named
progression clusters (verse, chorus, ...). Rhythm and lyrics are
never changed.

Examples:
  cantoria refine -f melody.json -i "a little brighter" -o melody2.json
  cantoria refine -f melody.json --regenerate --units chorus -o melody2.json
  cantoria refine -f satb.json -i "darker" -o satb2.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScore()
		if err != nil {
			return err
		}

		var refined *score.CanonicalScore
		switch sc.Meta.Stage {
		case score.StageSATB:
			refined, _, err = cantoria.RefineHarmony(sc, refineInstruction, refineRegenerate, refineUnits, nil)
		default:
			refined, err = cantoria.RefineMelody(sc, refineInstruction, refineRegenerate, refineUnits, nil)
		}
		if err != nil {
			return err
		}

		if !asJSON {
			fmt.Fprint(os.Stderr, renderSummary(refined))
		}

		return writeScore(refined)
	},
}

func init() {
	refineCmd.Flags().StringVarP(&refineInstruction, "instruction", "i", "", "natural-language refinement instruction")
	refineCmd.Flags().BoolVar(&refineRegenerate, "regenerate", false, "re-derive pitches instead of adjusting them")
	refineCmd.Flags().StringSliceVar(&refineUnits, "units", nil, "restrict regeneration to these clusters")
}
