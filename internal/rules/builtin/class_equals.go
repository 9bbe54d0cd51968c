package builtin

import (
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/rules"
)

// ClassEqualsRule flags class(x) == "name" and friends. Objects can carry
// several classes, so the comparison yields a vector; inherits() is the
// reliable test.
type ClassEqualsRule struct{}

// NewClassEqualsRule creates a new class_equals rule instance.
func NewClassEqualsRule() *ClassEqualsRule {
	return &ClassEqualsRule{}
}

// Metadata returns the rule metadata.
func (r *ClassEqualsRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "class_equals",
		Name:             "Use inherits()",
		Description:      "Comparing class(x) to a string ignores additional classes",
		DocURL:           rules.DocBaseURL + "class_equals",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategorySuspicious,
		EnabledByDefault: true,
	}
}

// Check runs the class_equals rule. Comparisons inside x[...] are skipped
// because they usually filter a column of class names.
func (r *ClassEqualsRule) Check(input rules.LintInput) []rules.Violation {
	var violations []rules.Violation
	meta := r.Metadata()
	s := input.Tokens

	for i, tok := range s {
		negate := tok.Is(rlang.Operator, "!=")
		if !negate && !tok.Is(rlang.Operator, "==") && !tok.Is(rlang.Special, "%in%") {
			continue
		}
		if s.InBrackets(i) {
			continue
		}
		leftStart := s.PrimaryStart(i - 1)
		rightEnd := s.PrimaryEnd(i + 1)
		if leftStart < 0 || rightEnd < 0 {
			continue
		}

		leftIsClass := s.IsCall(leftStart, "class") && s.CallEnd(leftStart) == i-1
		rightIsClass := s.IsCall(i+1, "class") && s.CallEnd(i+1) == rightEnd
		leftIsString := leftStart == i-1 && s[leftStart].Kind == rlang.String
		rightIsString := rightEnd == i+1 && s[rightEnd].Kind == rlang.String

		var classCall, className int
		switch {
		case leftIsClass && rightIsString:
			classCall, className = leftStart, rightEnd
		case rightIsClass && leftIsString:
			classCall, className = i+1, leftStart
		default:
			continue
		}

		args := input.Text(s[classCall+1].End, s[s.CallEnd(classCall)].Start)
		fun := "inherits"
		if negate {
			fun = "!inherits"
		}
		replacement := fun + "(" + args + ", " + s[className].Text + ")"

		violations = append(violations, rules.NewViolation(
			input.File, s[leftStart].Start, s[rightEnd].End, meta.Code,
			"Comparing `class(x)` with `==`, `!=` or `%in%` can be misleading. Use `inherits(x, class_name)` instead.",
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL).WithReplacement(replacement))
	}
	return violations
}
