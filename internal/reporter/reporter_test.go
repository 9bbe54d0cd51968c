package reporter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/rules"
)

func sampleResults() []*linter.FileResult {
	src := []byte("x <- c(1, NA)\nany(is.na(x))\n")
	v := rules.NewViolation("R/a.R", 14, 27, "any_is_na",
		"`any(is.na(...))` is inefficient. Use `anyNA(...)` instead.", rules.SeverityWarning).
		WithDocURL(rules.DocBaseURL + "any_is_na").
		WithReplacement("anyNA(x)")
	return []*linter.FileResult{
		{File: "R/a.R", Source: src, Lines: 2, Violations: []rules.Violation{v}},
		{File: "R/b.R", Source: []byte("y <- 1\n"), Lines: 1},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("sarif")
	require.Error(t, err)
}

func TestPrintText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sampleResults(), Options{}))

	want := "\nWARNING: any_is_na - https://flir-lint.github.io/flir/rules/any_is_na\n" +
		"`any(is.na(...))` is inefficient. Use `anyNA(...)` instead.\n\n" +
		"R/a.R:2:1\n" +
		"--------------------\n" +
		"   1 |     x <- c(1, NA)\n" +
		"   2 | >>> any(is.na(x))\n" +
		"   3 |     \n" +
		"--------------------\n" +
		"\nFound 1 issue in 1 file.\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintText_Clean(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintText(&buf, []*linter.FileResult{{File: "a.R"}}, Options{}))
	assert.Equal(t, "All checks passed!\n", buf.String())
}

func TestPrintText_Color(t *testing.T) {
	tests := []struct {
		name   string
		color  bool
		escape bool
	}{
		{"forced on a non-terminal writer", true, true},
		{"disabled", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PrintText(&buf, sampleResults(), Options{Color: tt.color}))
			assert.Equal(t, tt.escape, strings.Contains(buf.String(), "\x1b["))
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResults(), Options{}))

	var report Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, Summary{Files: 2, Issues: 1}, report.Summary)
	assert.Equal(t, rules.NewRangeLocation("R/a.R", 2, 1, 2, 14), report.Files[0].Issues[0].Location)
	assert.NotNil(t, report.Files[1].Issues)

	snaps.MatchStandaloneJSON(t, buf.String())
}

func TestCountIssues(t *testing.T) {
	assert.Equal(t, 1, CountIssues(sampleResults()))
	assert.Equal(t, 0, CountIssues(nil))
}
