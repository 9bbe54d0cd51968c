// Package lsptest implements black-box protocol tests for the flir language server.
//
// Each test launches flir lsp --stdio as a real subprocess and communicates
// over Content-Length-framed JSON-RPC on stdin/stdout. Coverage data from the
// subprocess is collected via GOCOVERDIR (same mechanism as internal/integration/).
package lsptest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/gkampitakis/go-snaps/match"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

func fileURI(t *testing.T, name string) protocol.DocumentURI {
	t.Helper()
	return protocol.DocumentURI(uri.File(filepath.Join(t.TempDir(), name)))
}

func codes(diags []protocol.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestLSP_Initialize(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	result := ts.initialize(t, protocol.ClientCapabilities{})

	// Snapshot the full server capabilities; version is dynamic.
	snaps.MatchStandaloneJSON(t, result, match.Any("serverInfo.version"))
}

func TestLSP_ShutdownExit(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})

	ts.shutdown(t)
	require.NoError(t, ts.waitExit(t), "clean shutdown exits 0")
	assert.NotContains(t, ts.stderr.String(), "exit received without prior shutdown")
}

func TestLSP_ExitWithoutShutdown(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})

	require.NoError(t, ts.conn.Notify(context.Background(), protocol.MethodExit, nil))
	require.NoError(t, ts.waitExit(t))
	assert.Contains(t, ts.stderr.String(), "exit received without prior shutdown")
}

func TestLSP_DiagnosticsOnDidOpen(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})

	u := protocol.DocumentURI("untitled:analysis")
	ts.openDocument(t, u, "x <- c(1, NA)\nif (x == NA) browser()\nany(is.na(x))\n")

	diag := ts.waitDiagnostics(t)
	assert.Equal(t, u, diag.URI)
	assert.Equal(t, []string{"equals_na", "browser", "any_is_na"}, codes(diag.Diagnostics))

	// Snapshot the full diagnostics notification.
	snaps.MatchStandaloneJSON(t, diag)
}

func TestLSP_DiagnosticsUpdatedOnDidChange(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})
	u := fileURI(t, "script.R")

	ts.openDocument(t, u, "any(is.na(x))\nany(duplicated(x))\n")
	diag := ts.waitDiagnostics(t)
	assert.Equal(t, []string{"any_is_na", "any_duplicated"}, codes(diag.Diagnostics))

	ts.changeDocument(t, u, 2, protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: 1, Character: 0},
			End:   protocol.Position{Line: 1, Character: 18},
		},
		Text: "anyDuplicated(x) > 0",
	})
	diag = ts.waitDiagnostics(t)
	require.NotNil(t, diag.Version)
	assert.Equal(t, int32(2), *diag.Version)
	assert.Equal(t, []string{"any_is_na"}, codes(diag.Diagnostics))
}

func TestLSP_DiagnosticsClearedOnClose(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})
	u := fileURI(t, "script.R")

	ts.openDocument(t, u, "browser()\n")
	require.NotEmpty(t, ts.waitDiagnostics(t).Diagnostics)

	ts.closeDocument(t, u)
	diag := ts.waitDiagnostics(t)
	assert.Equal(t, u, diag.URI)
	assert.Empty(t, diag.Diagnostics)
}

func TestLSP_PullDiagnostics(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	result := ts.initialize(t, protocol.ClientCapabilities{
		TextDocument: &protocol.TextDocumentClientCapabilities{
			Diagnostic: &protocol.DiagnosticClientCapabilities{},
		},
	})
	require.NotNil(t, result.Capabilities.DiagnosticProvider)

	u := fileURI(t, "script.R")
	ts.openDocument(t, u, "if (class(x) == \"data.frame\") TRUE\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var report protocol.FullDocumentDiagnosticReport
	require.NoError(t, ts.conn.Call(ctx, protocol.MethodTextDocumentDiagnostic, &protocol.DocumentDiagnosticParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: u},
	}, &report))
	assert.Equal(t, protocol.DiagnosticReportFull, report.Kind)
	assert.Equal(t, []string{"class_equals"}, codes(report.Items))

	select {
	case d := <-ts.diagnosticsCh:
		t.Fatalf("pull client received a push: %+v", d)
	default:
	}
}

func TestLSP_UTF8PositionEncoding(t *testing.T) {
	t.Parallel()
	content := "x <- \"é\"; any(is.na(x))\n"

	tests := []struct {
		name    string
		offered []protocol.PositionEncodingKind
		want    protocol.PositionEncodingKind
		start   uint32
	}{
		{"utf-16 default", nil, protocol.PositionEncodingUTF16, 10},
		{"utf-8 negotiated", []protocol.PositionEncodingKind{protocol.PositionEncodingUTF8}, protocol.PositionEncodingUTF8, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ts := startTestServer(t)
			result := ts.initialize(t, protocol.ClientCapabilities{
				General: &protocol.GeneralClientCapabilities{PositionEncodings: tt.offered},
			})
			assert.Equal(t, tt.want, result.Capabilities.PositionEncoding)

			ts.openDocument(t, fileURI(t, "enc.R"), content)
			diag := ts.waitDiagnostics(t)
			require.Len(t, diag.Diagnostics, 1)
			assert.Equal(t, tt.start, diag.Diagnostics[0].Range.Start.Character)
		})
	}
}

func TestLSP_UnknownMethod(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t)
	ts.initialize(t, protocol.ClientCapabilities{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := ts.conn.Call(ctx, "custom/nonExistentMethod", nil, nil)
	var rpcErr *jsonrpc2.Error
	require.True(t, errors.As(err, &rpcErr), "got %v", err)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)
}

func TestLSP_WorkersFromEnvironment(t *testing.T) {
	t.Parallel()
	ts := startTestServer(t, "FLIR_LSP_WORKERS=1")
	ts.initialize(t, protocol.ClientCapabilities{})
	ts.shutdown(t)
	require.NoError(t, ts.waitExit(t))
	assert.Contains(t, ts.stderr.String(), "workers=1")
}
