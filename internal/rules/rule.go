package rules

import (
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/sourcemap"
)

// Rule categories. A selection entry may name a category instead of a rule.
const (
	CategoryCorrectness = "CORR"
	CategoryPerformance = "PERF"
	CategoryReadability = "READ"
	CategorySuspicious  = "SUSP"
)

// LintInput contains all the information a rule needs to check an R file.
type LintInput struct {
	// File is the path of the file being linted (may be empty for unsaved
	// buffers).
	File string

	// Source is the raw source content.
	Source []byte

	// Tokens is the lexed source.
	Tokens rlang.Stream

	// Config is the rule-specific configuration (type depends on rule).
	Config any
}

// NewLintInput lexes source and wraps it for rule checks.
func NewLintInput(file string, source []byte) LintInput {
	return LintInput{
		File:   file,
		Source: source,
		Tokens: rlang.Lex(source),
	}
}

// SourceMap returns a line index over the source.
func (in LintInput) SourceMap() *sourcemap.SourceMap {
	return sourcemap.New(in.Source)
}

// Snippet returns the 0-based lines startLine..endLine inclusive.
func (in LintInput) Snippet(startLine, endLine int) string {
	return in.SourceMap().Snippet(startLine, endLine)
}

// Text returns the source between two byte offsets, clamped to the buffer.
func (in LintInput) Text(start, end int) string {
	start = max(start, 0)
	end = min(end, len(in.Source))
	if start >= end {
		return ""
	}
	return string(in.Source[start:end])
}

// RuleMetadata contains static information about a rule.
type RuleMetadata struct {
	// Code is the unique identifier (e.g., "any_is_na").
	Code string

	// Name is the human-readable rule name.
	Name string

	// Description explains what the rule checks.
	Description string

	// DocURL links to detailed documentation.
	DocURL string

	// DefaultSeverity is the severity when not overridden.
	DefaultSeverity Severity

	// Category groups related rules (CORR, PERF, READ, SUSP).
	Category string

	// EnabledByDefault indicates if the rule runs without explicit opt-in.
	EnabledByDefault bool
}

// Rule is the interface that all linting rules must implement.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() RuleMetadata

	// Check runs the rule against the given input and returns any violations.
	Check(input LintInput) []Violation
}

// ConfigurableRule is an optional interface for rules that accept configuration.
type ConfigurableRule interface {
	Rule

	// DefaultConfig returns the default configuration for this rule.
	DefaultConfig() any

	// ResolveConfig turns raw options from flir.toml into the rule's typed
	// configuration.
	ResolveConfig(opts map[string]any) (any, error)
}

// DocBaseURL is where rule documentation lives.
const DocBaseURL = "https://flir-lint.github.io/flir/rules/"
