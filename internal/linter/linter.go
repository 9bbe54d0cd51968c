// Package linter runs the registered rules over R source. It is the one
// entry point shared by the check command and the language server.
package linter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/flir-lint/flir/internal/config"
	"github.com/flir-lint/flir/internal/rlang"
	"github.com/flir-lint/flir/internal/rules"
)

// ErrRuleFailed is returned when a rule panics while checking a file.
var ErrRuleFailed = errors.New("rule failed")

// Linter lints one file's content. path is used for config discovery and
// exclusion only; the content is never read from disk.
type Linter interface {
	Lint(path string, content []byte) ([]rules.Violation, error)
}

// Engine is the default Linter backed by a rule registry and flir.toml.
// It is safe for concurrent use.
type Engine struct {
	registry  *rules.Registry
	overrides map[string]any
	log       logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default rule registry.
func WithRegistry(reg *rules.Registry) Option {
	return func(e *Engine) { e.registry = reg }
}

// WithOverrides applies config keys (e.g. "lint.select") on top of every
// discovered flir.toml.
func WithOverrides(overrides map[string]any) Option {
	return func(e *Engine) { e.overrides = overrides }
}

// WithLogger sets the logger for config and rule warnings.
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: rules.DefaultRegistry(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lint runs the rules selected for path over content and returns the
// violations ordered by position.
func (e *Engine) Lint(path string, content []byte) ([]rules.Violation, error) {
	log := e.log.WithField("path", path)

	cfg, err := config.LoadForFile(path, e.overrides)
	if err != nil {
		log.WithError(err).Warn("invalid configuration, using defaults")
		if cfg, err = config.Load("", e.overrides); err != nil {
			cfg = config.Default()
		}
	}
	if cfg.Excluded(path) {
		log.Debug("file excluded by configuration")
		return nil, nil
	}

	selected, unknown := e.registry.Resolve(cfg.Selection())
	if len(unknown) > 0 {
		log.WithField("entries", unknown).Warn("unknown rules or categories in selection")
	}

	input := rules.NewLintInput(path, content)
	var violations []rules.Violation
	for _, rule := range selected {
		input.Config = e.ruleConfig(log, cfg, rule)
		found, err := checkRule(rule, input)
		if err != nil {
			return nil, err
		}
		violations = append(violations, found...)
	}

	sortViolations(violations)
	return violations, nil
}

func (e *Engine) ruleConfig(log logrus.FieldLogger, cfg *config.Config, rule rules.Rule) any {
	cr, ok := rule.(rules.ConfigurableRule)
	if !ok {
		return nil
	}
	code := rule.Metadata().Code
	resolved, err := cr.ResolveConfig(cfg.RuleOptions(code))
	if err != nil {
		log.WithError(err).WithField("rule", code).Warn("invalid rule options, using defaults")
		return cr.DefaultConfig()
	}
	return resolved
}

// checkRule isolates a misbehaving rule so the caller gets an error
// instead of a crashed worker.
func checkRule(rule rules.Rule, input rules.LintInput) (violations []rules.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrRuleFailed, rule.Metadata().Code, r)
		}
	}()
	return rule.Check(input), nil
}

func sortViolations(vs []rules.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Start != vs[j].Start {
			return vs[i].Start < vs[j].Start
		}
		if vs[i].End != vs[j].End {
			return vs[i].End < vs[j].End
		}
		return vs[i].RuleCode < vs[j].RuleCode
	})
}

// FileResult is the outcome of linting a file on disk.
type FileResult struct {
	File       string
	Source     []byte
	Lines      int
	Violations []rules.Violation
}

// LintFile reads path ("-" for stdin) and lints it.
func (e *Engine) LintFile(ctx context.Context, path string) (*FileResult, error) {
	parsed, err := rlang.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	lintPath := path
	if path == "-" {
		lintPath = ""
	}
	violations, err := e.Lint(lintPath, parsed.Source)
	if err != nil {
		return nil, err
	}
	for i := range violations {
		violations[i].File = path
	}
	return &FileResult{
		File:       path,
		Source:     parsed.Source,
		Lines:      parsed.TotalLines,
		Violations: violations,
	}, nil
}
