package builtin

import "github.com/flir-lint/flir/internal/rules"

// AnyDuplicatedRule flags any(duplicated(x)).
type AnyDuplicatedRule struct{}

// NewAnyDuplicatedRule creates a new any_duplicated rule instance.
func NewAnyDuplicatedRule() *AnyDuplicatedRule {
	return &AnyDuplicatedRule{}
}

// Metadata returns the rule metadata.
func (r *AnyDuplicatedRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "any_duplicated",
		Name:             "Use anyDuplicated()",
		Description:      "any(duplicated(x)) is slower than anyDuplicated(x) > 0",
		DocURL:           rules.DocBaseURL + "any_duplicated",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategoryPerformance,
		EnabledByDefault: true,
	}
}

// Check runs the any_duplicated rule.
func (r *AnyDuplicatedRule) Check(input rules.LintInput) []rules.Violation {
	return checkWrappedCalls(input, r.Metadata(), "any", "duplicated",
		"`any(duplicated(...))` is inefficient. Use `anyDuplicated(...) > 0` instead.",
		func(args string) string { return "anyDuplicated(" + args + ") > 0" })
}
