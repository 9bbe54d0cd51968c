package builtin

import (
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/rules"
)

// TrueFalseSymbolRule flags the T and F shorthands, which are ordinary
// variables that can be reassigned.
type TrueFalseSymbolRule struct{}

// NewTrueFalseSymbolRule creates a new true_false_symbol rule instance.
func NewTrueFalseSymbolRule() *TrueFalseSymbolRule {
	return &TrueFalseSymbolRule{}
}

// Metadata returns the rule metadata.
func (r *TrueFalseSymbolRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "true_false_symbol",
		Name:             "Spell out TRUE and FALSE",
		Description:      "T and F are variables, not constants",
		DocURL:           rules.DocBaseURL + "true_false_symbol",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategoryReadability,
		EnabledByDefault: true,
	}
}

// Check runs the true_false_symbol rule.
func (r *TrueFalseSymbolRule) Check(input rules.LintInput) []rules.Violation {
	var violations []rules.Violation
	meta := r.Metadata()
	s := input.Tokens

	for i, tok := range s {
		if tok.Kind != rlang.Ident || (tok.Text != "T" && tok.Text != "F") || tok.End-tok.Start != 1 {
			continue
		}
		if allowedTrueFalse(s, i) {
			continue
		}
		replacement := "TRUE"
		if tok.Text == "F" {
			replacement = "FALSE"
		}
		violations = append(violations, rules.NewViolation(
			input.File, tok.Start, tok.End, meta.Code,
			"`T` and `F` can be confused with variable names. Spell `TRUE` and `FALSE` entirely instead.",
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL).WithReplacement(replacement))
	}
	return violations
}

// allowedTrueFalse covers T(), df$T, pkg::T, formula operands and
// argument names such as f(T = 1).
func allowedTrueFalse(s rlang.Stream, i int) bool {
	prev, next := s.At(i-1), s.At(i+1)
	switch {
	case next.Kind == rlang.LParen:
		return true
	case s.IsMember(i):
		return true
	case prev.Is(rlang.Operator, "::") || prev.Is(rlang.Operator, ":::"):
		return true
	case prev.Is(rlang.Operator, "~") || next.Is(rlang.Operator, "~"):
		return true
	case next.Is(rlang.Operator, "=") && s[i].Enclosing == rlang.LParen:
		return true
	}
	return false
}
