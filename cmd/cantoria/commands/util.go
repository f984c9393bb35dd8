package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"

	"github.com/cantoria/cantoria/score"
	"github.com/cantoria/cantoria/validate"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff9f"))
	errStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f5f"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd75f"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
	measureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87afff"))
)

// loadFile decodes a YAML or JSON file into v, by extension.
func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	return nil
}

func requireInputFile() error {
	if inputFile == "" {
		return fmt.Errorf("input file is required, use -f flag")
	}

	return nil
}

// loadScore reads a canonical score file.
func loadScore() (*score.CanonicalScore, error) {
	if err := requireInputFile(); err != nil {
		return nil, err
	}

	var sc score.CanonicalScore
	if err := loadFile(inputFile, &sc); err != nil {
		return nil, err
	}

	return &sc, nil
}

// writeOutput sends bytes to the -o file, or stdout when unset.
func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)

		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	return os.WriteFile(outputFile, data, 0o644)
}

// writeScore marshals a score as JSON and sends it to the output.
func writeScore(sc *score.CanonicalScore) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}

	return writeOutput(append(data, '\n'))
}

// renderReport prints a validation report, styled for terminals or as
// raw JSON with --json.
func renderReport(report validate.Report) error {
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}

		return writeOutput(append(data, '\n'))
	}

	var b strings.Builder
	if len(report.Issues) == 0 {
		b.WriteString(okStyle.Render("✓ score OK") + "\n")

		return writeOutput([]byte(b.String()))
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d issue(s)", len(report.Issues))) + "\n")
	for _, issue := range report.Issues {
		tag := warnStyle.Render("warn ")
		if issue.Severity == validate.SeverityError {
			tag = errStyle.Render("error")
		}
		loc := dimStyle.Render(fmt.Sprintf("[%s]", issue.Rule))
		if issue.Measure > 0 {
			loc += " " + measureStyle.Render(fmt.Sprintf("m.%d", issue.Measure))
		}
		if issue.Voice != "" {
			loc += " " + measureStyle.Render(issue.Voice)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", tag, loc, issue.Message)
	}

	return writeOutput([]byte(b.String()))
}

// renderSummary prints a one-screen overview of a generated score.
func renderSummary(sc *score.CanonicalScore) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(firstNonEmpty(sc.Meta.Title, "untitled")) + "\n")
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("stage"), string(sc.Meta.Stage))
	fmt.Fprintf(&b, "  %s %s, %s at %d BPM\n",
		dimStyle.Render("music"), sc.Meta.Key, sc.Meta.Time.String(), sc.Meta.TempoBPM)
	fmt.Fprintf(&b, "  %s %d measures, %d sections\n",
		dimStyle.Render("shape"), len(sc.Measures), len(sc.Sections))
	if sc.Meta.Rationale != "" {
		fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("notes"), sc.Meta.Rationale)
	}

	return b.String()
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}
