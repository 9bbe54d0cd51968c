package builtin

import "github.com/flir-lint/flir/internal/rules"

// AnyIsNARule flags any(is.na(x)), which allocates a full logical vector
// where anyNA(x) can stop at the first missing value.
type AnyIsNARule struct{}

// NewAnyIsNARule creates a new any_is_na rule instance.
func NewAnyIsNARule() *AnyIsNARule {
	return &AnyIsNARule{}
}

// Metadata returns the rule metadata.
func (r *AnyIsNARule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "any_is_na",
		Name:             "Use anyNA()",
		Description:      "any(is.na(x)) is slower than anyNA(x)",
		DocURL:           rules.DocBaseURL + "any_is_na",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategoryPerformance,
		EnabledByDefault: true,
	}
}

// Check runs the any_is_na rule.
func (r *AnyIsNARule) Check(input rules.LintInput) []rules.Violation {
	return checkWrappedCalls(input, r.Metadata(), "any", "is.na",
		"`any(is.na(...))` is inefficient. Use `anyNA(...)` instead.",
		func(args string) string { return "anyNA(" + args + ")" })
}
