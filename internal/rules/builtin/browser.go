package builtin

import (
	"fmt"
	"slices"

	"github.com/flir-lint/flir/internal/rules"
	"github.com/flir-lint/flir/internal/rules/configutil"
)

// BrowserConfig lists the debugging calls the browser rule reports.
type BrowserConfig struct {
	Calls []string `koanf:"calls"`
}

// BrowserRule flags leftover browser() calls.
type BrowserRule struct{}

// NewBrowserRule creates a new browser rule instance.
func NewBrowserRule() *BrowserRule {
	return &BrowserRule{}
}

// Metadata returns the rule metadata.
func (r *BrowserRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:             "browser",
		Name:             "Remove browser()",
		Description:      "browser() interrupts execution and should not ship in released code",
		DocURL:           rules.DocBaseURL + "browser",
		DefaultSeverity:  rules.SeverityWarning,
		Category:         rules.CategoryCorrectness,
		EnabledByDefault: true,
	}
}

// DefaultConfig returns the default configuration for this rule.
func (r *BrowserRule) DefaultConfig() any {
	return BrowserConfig{Calls: []string{"browser"}}
}

// ResolveConfig merges [lint.rules.browser] options over the defaults.
func (r *BrowserRule) ResolveConfig(opts map[string]any) (any, error) {
	defaults, _ := r.DefaultConfig().(BrowserConfig)
	return configutil.Resolve(opts, defaults)
}

// Check runs the browser rule.
func (r *BrowserRule) Check(input rules.LintInput) []rules.Violation {
	cfg, ok := input.Config.(BrowserConfig)
	if !ok {
		cfg, _ = r.DefaultConfig().(BrowserConfig)
	}

	var violations []rules.Violation
	meta := r.Metadata()
	s := input.Tokens
	for i, tok := range s {
		if !slices.Contains(cfg.Calls, tok.Text) || !s.IsCall(i, tok.Text) {
			continue
		}
		violations = append(violations, rules.NewViolation(
			input.File, tok.Start, s[s.CallEnd(i)].End, meta.Code,
			fmt.Sprintf("Calls to `%s()` should be removed.", tok.Text),
			meta.DefaultSeverity,
		).WithDocURL(meta.DocURL))
	}
	return violations
}
