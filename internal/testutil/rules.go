// Package testutil holds helpers shared by rule tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/rules"
)

// RuleTestCase describes one table entry for RunRuleTests.
type RuleTestCase struct {
	Name    string
	Content string
	// Config is passed through LintInput.Config when non-nil.
	Config any

	WantViolations int
	// WantCodes, WantMessages and WantSpans are checked positionally when set.
	WantCodes    []string
	WantMessages []string
	// WantSpans lists the source text each violation should cover.
	WantSpans []string
	// WantReplacements lists expected suggested replacements.
	WantReplacements []string
}

// RunRuleTests runs r over each case's content and checks the findings.
func RunRuleTests(t *testing.T, r rules.Rule, cases []RuleTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			input := rules.NewLintInput("test.R", []byte(tc.Content))
			input.Config = tc.Config
			violations := r.Check(input)

			require.Len(t, violations, tc.WantViolations, "violations: %+v", violations)
			for i, want := range tc.WantCodes {
				assert.Equal(t, want, violations[i].RuleCode)
			}
			for i, want := range tc.WantMessages {
				assert.Contains(t, violations[i].Message, want)
			}
			for i, want := range tc.WantSpans {
				assert.Equal(t, want, input.Text(violations[i].Start, violations[i].End))
			}
			for i, want := range tc.WantReplacements {
				require.NotNil(t, violations[i].Replacement)
				assert.Equal(t, want, *violations[i].Replacement)
			}
		})
	}
}
