package builtin

import (
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/rules"
)

// wrappedCall matches outer(inner(args)) starting at token i, where the
// inner call is the only argument. It returns the index of the outer
// closing paren and the byte span of args.
func wrappedCall(s rlang.Stream, i int, outer, inner string) (end, argStart, argEnd int, ok bool) {
	if !s.IsCall(i, outer) || !s.IsCall(i+2, inner) {
		return 0, 0, 0, false
	}
	innerEnd := s.CallEnd(i + 2)
	outerEnd := s.CallEnd(i)
	if innerEnd+1 != outerEnd {
		return 0, 0, 0, false
	}
	return outerEnd, s[i+3].End, s[innerEnd].Start, true
}

// checkWrappedCalls reports every outer(inner(...)) in the input.
// replace builds the suggested replacement from the inner argument text.
func checkWrappedCalls(
	input rules.LintInput,
	meta rules.RuleMetadata,
	outer, inner, message string,
	replace func(args string) string,
) []rules.Violation {
	var violations []rules.Violation
	s := input.Tokens
	for i := range s {
		end, argStart, argEnd, ok := wrappedCall(s, i, outer, inner)
		if !ok {
			continue
		}
		v := rules.NewViolation(input.File, s[i].Start, s[end].End, meta.Code, message, meta.DefaultSeverity).
			WithDocURL(meta.DocURL).
			WithReplacement(replace(input.Text(argStart, argEnd)))
		violations = append(violations, v)
	}
	return violations
}
