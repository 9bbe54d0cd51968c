package lspserver

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/lsp/protocol"
	"github.com/flir-lint/flir/internal/rules"
)

func snapshotOf(t *testing.T, content string) DocumentSnapshot {
	t.Helper()
	s := initializedSession(t, protocol.ClientCapabilities{})
	u := protocol.DocumentURI("untitled:analysis")
	s.OpenDocument(u, NewTextDocument(content, 1, "r"))
	snap, ok := s.TakeSnapshot(u)
	require.True(t, ok)
	return snap
}

func TestLintSnapshot_Idempotent(t *testing.T) {
	t.Parallel()
	logger, _ := test.NewNullLogger()
	snap := snapshotOf(t, "x <- c(1, NA)\nif (x == NA) browser()\nany(is.na(x))\n")
	l := linter.New(linter.WithLogger(logger))

	first := lintSnapshot(l, snap, logger)
	second := lintSnapshot(l, snap, logger)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	for _, d := range first {
		assert.Equal(t, protocol.SeverityWarning, d.Severity)
		assert.Equal(t, diagnosticSource, d.Source)
	}
}

func TestLintSnapshot_EngineFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		linter stubLinter
	}{
		{"error", func(string, []byte) ([]rules.Violation, error) { return nil, errors.New("boom") }},
		{"panic", func(string, []byte) ([]rules.Violation, error) { panic("boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger, hook := test.NewNullLogger()
			diags := lintSnapshot(tt.linter, snapshotOf(t, "x\n"), logger)

			assert.NotNil(t, diags)
			assert.Empty(t, diags)
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			assert.Equal(t, "lint failed", hook.LastEntry().Message)
		})
	}
}

func TestLintSnapshot_SkipsInvalidRanges(t *testing.T) {
	t.Parallel()
	logger, hook := test.NewNullLogger()
	l := stubLinter(func(string, []byte) ([]rules.Violation, error) {
		return []rules.Violation{
			rules.NewViolation("", 0, 1, "good", "kept", rules.SeverityWarning),
			rules.NewViolation("", 0, 99, "bad", "dropped", rules.SeverityWarning),
		}, nil
	})

	diags := lintSnapshot(l, snapshotOf(t, "x\n"), logger)
	require.Len(t, diags, 1)
	assert.Equal(t, "good", diags[0].Code)
	assert.Equal(t, "skipping violation with invalid range", hook.LastEntry().Message)
}
