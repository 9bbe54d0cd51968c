package reporter

import (
	"encoding/json"
	"io"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/rules"
	"github.com/flir-lint/flir/internal/sourcemap"
)

// Issue is one violation in the JSON report.
type Issue struct {
	// Rule is the rule code (e.g., "any_is_na")
	Rule string `json:"rule"`
	// Message is the human-readable description of the issue
	Message string `json:"message"`
	// Severity is the issue severity (error, warning, info, style)
	Severity rules.Severity `json:"severity"`
	// Location is the 1-based range of the issue
	Location rules.Location `json:"location"`
	// DocURL links to the rule documentation
	DocURL string `json:"docUrl,omitempty"`
	// Replacement is the suggested fix text, when the rule has one
	Replacement *string `json:"replacement,omitempty"`
}

// FileReport contains the issues for a single file.
type FileReport struct {
	// File is the path that was linted
	File string `json:"file"`
	// Lines is the total number of lines in the file
	Lines int `json:"lines"`
	// Issues is the list of issues found
	Issues []Issue `json:"issues"`
}

// Summary totals a report.
type Summary struct {
	Files  int `json:"files"`
	Issues int `json:"issues"`
}

// Report is the top-level JSON document.
type Report struct {
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// NewReport converts lint results into the JSON schema.
func NewReport(results []*linter.FileResult) Report {
	report := Report{Files: make([]FileReport, 0, len(results))}
	for _, res := range results {
		sm := sourcemap.New(res.Source)
		fr := FileReport{File: res.File, Lines: res.Lines, Issues: make([]Issue, 0, len(res.Violations))}
		for _, v := range res.Violations {
			fr.Issues = append(fr.Issues, Issue{
				Rule:        v.RuleCode,
				Message:     v.Message,
				Severity:    v.Severity,
				Location:    v.Location(sm),
				DocURL:      v.DocURL,
				Replacement: v.Replacement,
			})
		}
		report.Files = append(report.Files, fr)
		report.Summary.Issues += len(fr.Issues)
	}
	report.Summary.Files = len(results)
	return report
}

// PrintJSON writes results as an indented JSON report.
func PrintJSON(w io.Writer, results []*linter.FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(results))
}
