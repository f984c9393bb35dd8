// Package main provides the cantoria choir-arrangement CLI.
//
// Usage:
//
//	cantoria <command> [flags]
//
// Commands:
//
//	compose  - Generate a melody (or full SATB) score from a lyric request
//	refine   - Refine a saved draft with a natural-language instruction
//	validate - Run the invariant checks over a saved score
//	export   - Render a saved score as MusicXML
//
// Requests and scores travel as YAML or JSON files; see the per-command
// help for the expected shapes.
package main

import (
	"fmt"
	"os"

	"github.com/cantoria/cantoria/cmd/cantoria/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
