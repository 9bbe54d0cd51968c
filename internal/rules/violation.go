package rules

import "github.com/flir-lint/flir/internal/sourcemap"

// Violation is a single rule finding. Start and End are byte offsets into
// the linted content, End exclusive.
type Violation struct {
	File     string   `json:"file"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	RuleCode string   `json:"rule"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`

	// Detail is an optional longer explanation.
	Detail string `json:"detail,omitempty"`
	// DocURL links to the rule documentation.
	DocURL string `json:"docUrl,omitempty"`
	// Replacement is the suggested text for [Start, End), if the rule has one.
	Replacement *string `json:"replacement,omitempty"`
}

// NewViolation creates a violation spanning [start, end).
func NewViolation(file string, start, end int, code, message string, severity Severity) Violation {
	return Violation{
		File:     file,
		Start:    start,
		End:      end,
		RuleCode: code,
		Message:  message,
		Severity: severity,
	}
}

// WithDetail adds a longer explanation.
func (v Violation) WithDetail(detail string) Violation {
	v.Detail = detail
	return v
}

// WithDocURL adds a documentation link.
func (v Violation) WithDocURL(url string) Violation {
	v.DocURL = url
	return v
}

// WithReplacement attaches a suggested replacement for the violation span.
func (v Violation) WithReplacement(text string) Violation {
	v.Replacement = &text
	return v
}

// Location resolves the byte range to line/column positions.
func (v Violation) Location(sm *sourcemap.SourceMap) Location {
	return LocationFromOffsets(v.File, sm, v.Start, v.End)
}
