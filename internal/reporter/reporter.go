// Package reporter provides output formatters for check results.
package reporter

import (
	"fmt"
	"io"

	"github.com/flir-lint/flir/internal/linter"
)

// Format selects an output formatter.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text or json)", s)
	}
}

// Options tunes reporter output.
type Options struct {
	// Color enables ANSI styling in the text format.
	Color bool
}

// Write renders results to w in the given format.
func Write(w io.Writer, format Format, results []*linter.FileResult, opts Options) error {
	switch format {
	case FormatJSON:
		return PrintJSON(w, results)
	default:
		return PrintText(w, results, opts)
	}
}

// CountIssues returns the number of violations across all results.
func CountIssues(results []*linter.FileResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Violations)
	}
	return n
}
