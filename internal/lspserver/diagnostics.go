package lspserver

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/lsp/protocol"
	"github.com/flir-lint/flir/internal/rules"
)

// lintSnapshot lints snap and converts the findings to LSP diagnostics in
// the snapshot's position encoding. Engine failures are logged and yield
// no diagnostics.
func lintSnapshot(l linter.Linter, snap DocumentSnapshot, log logrus.FieldLogger) []protocol.Diagnostic {
	content := snap.Content()
	violations, err := safeLint(l, snap.FilePath(), []byte(content))
	if err != nil {
		log.WithError(fmt.Errorf("%w: %w", ErrLintEngine, err)).Warn("lint failed")
		return []protocol.Diagnostic{}
	}

	diags := make([]protocol.Diagnostic, 0, len(violations))
	for _, v := range violations {
		d, err := toDiagnostic(content, v, snap.PositionEncoding())
		if err != nil {
			log.WithError(err).WithField("rule", v.RuleCode).Warn("skipping violation with invalid range")
			continue
		}
		diags = append(diags, d)
	}
	return diags
}

func toDiagnostic(content string, v rules.Violation, enc PositionEncoding) (protocol.Diagnostic, error) {
	start, err := OffsetToPosition(content, v.Start, enc)
	if err != nil {
		return protocol.Diagnostic{}, fmt.Errorf("start offset %d: %w", v.Start, err)
	}
	end, err := OffsetToPosition(content, v.End, enc)
	if err != nil {
		return protocol.Diagnostic{}, fmt.Errorf("end offset %d: %w", v.End, err)
	}
	return protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: protocol.SeverityWarning,
		Code:     v.RuleCode,
		Source:   diagnosticSource,
		Message:  v.Message,
	}, nil
}

// safeLint keeps a panicking Linter from taking down its worker.
func safeLint(l linter.Linter, path string, content []byte) (violations []rules.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("linter panic: %v", r)
		}
	}()
	return l.Lint(path, content)
}
