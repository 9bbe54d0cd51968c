package builtin

import (
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/rules"
)

var naConstants = map[string]bool{
	"NA":            true,
	"NA_character_": true,
	"NA_integer_":   true,
	"NA_real_":      true,
	"NA_logical_":   true,
	"NA_complex_":   true,
}

// EqualsNARule flags x == NA and x != NA, which always evaluate to NA.
type EqualsNARule struct{}

// NewEqualsNARule creates a new equals_na rule instance.
func NewEqualsNARule() *EqualsNARule {
	return &EqualsNARule{}
}

// Metadata returns the rule metadata.
func (r *EqualsNARule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "equals_na",
		Name:             "Use is.na()",
		Description:      "Comparing to NA with == or != always yields NA",
		DocURL:           rules.DocBaseURL + "equals_na",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategoryCorrectness,
		EnabledByDefault: true,
	}
}

// Check runs the equals_na rule.
func (r *EqualsNARule) Check(input rules.LintInput) []rules.Violation {
	var violations []rules.Violation
	meta := r.Metadata()
	s := input.Tokens

	for i, tok := range s {
		if !tok.Is(rlang.Operator, "==") && !tok.Is(rlang.Operator, "!=") {
			continue
		}
		leftStart := s.PrimaryStart(i - 1)
		rightEnd := s.PrimaryEnd(i + 1)
		if leftStart < 0 || rightEnd < 0 {
			continue
		}
		leftIsNA := leftStart == i-1 && isNAConstant(s, leftStart)
		rightIsNA := rightEnd == i+1 && isNAConstant(s, rightEnd)
		if leftIsNA == rightIsNA {
			continue
		}

		var other string
		if leftIsNA {
			other = input.Text(s[i+1].Start, s[rightEnd].End)
		} else {
			other = input.Text(s[leftStart].Start, s[i-1].End)
		}
		replacement := "is.na(" + other + ")"
		if tok.Text == "!=" {
			replacement = "!" + replacement
		}

		violations = append(violations, rules.NewViolation(
			input.File, s[leftStart].Start, s[rightEnd].End, meta.Code,
			"Use `is.na()` instead of comparing to NA with ==, != or %in%.",
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL).WithReplacement(replacement))
	}
	return violations
}

// isNAConstant reports whether token i is a bare NA literal (not a
// backtick-quoted name, whose span is wider than its text).
func isNAConstant(s rlang.Stream, i int) bool {
	t := s[i]
	return t.Kind == rlang.Ident && naConstants[t.Text] && t.End-t.Start == len(t.Text)
}
