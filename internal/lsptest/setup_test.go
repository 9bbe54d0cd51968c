package lsptest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/require"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

var (
	binaryPath  string
	coverageDir string
)

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "flir-lsptest")
	if err != nil {
		panic(err)
	}

	binaryName := "flir"
	if runtime.GOOS == "windows" {
		binaryName = "flir.exe"
	}
	binaryPath = filepath.Join(tmpDir, binaryName)

	// Reuse the same coverage directory as integration tests.
	coverageDir = os.Getenv("GOCOVERDIR")
	if coverageDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			_ = os.RemoveAll(tmpDir)
			panic("failed to get working directory: " + err.Error())
		}
		coverageDir = filepath.Join(wd, "..", "..", "coverage")
	}
	coverageDir, err = filepath.Abs(coverageDir)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to get absolute coverage directory path: " + err.Error())
	}
	if err := os.MkdirAll(coverageDir, 0o750); err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to create coverage directory: " + err.Error())
	}

	cmd := exec.Command("go", "build", "-cover", "-o", binaryPath, "github.com/flir-lint/flir")
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(tmpDir)
		panic("failed to build binary: " + string(out))
	}

	code := m.Run()
	_ = os.RemoveAll(tmpDir)
	os.Exit(code)
}

// processIO wraps subprocess stdin/stdout as an io.ReadWriteCloser
// for use with jsonrpc2.NewBufferedStream.
type processIO struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (p *processIO) Read(data []byte) (int, error)  { return p.reader.Read(data) }
func (p *processIO) Write(data []byte) (int, error) { return p.writer.Write(data) }
func (p *processIO) Close() error                   { return p.writer.Close() }

// testServer manages a flir lsp --stdio subprocess for black-box testing.
type testServer struct {
	cmd    *exec.Cmd
	conn   *jsonrpc2.Conn
	stderr *bytes.Buffer
	exited chan error

	diagnosticsCh chan *protocol.PublishDiagnosticsParams
}

// startTestServer launches flir lsp --stdio as a subprocess with
// Content-Length-framed JSON-RPC over stdin/stdout.
func startTestServer(t *testing.T, env ...string) *testServer {
	t.Helper()

	cmd := exec.Command(binaryPath, "--log-level", "debug", "lsp", "--stdio")
	cmd.Env = append(os.Environ(), "GOCOVERDIR="+coverageDir)
	cmd.Env = append(cmd.Env, env...)

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Start())

	ts := &testServer{
		cmd:           cmd,
		stderr:        &stderr,
		exited:        make(chan error, 1),
		diagnosticsCh: make(chan *protocol.PublishDiagnosticsParams, 10),
	}

	// Route server-to-client notifications.
	handler := jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		if req.Method == protocol.MethodTextDocumentPublishDiagnostics && req.Params != nil {
			var params protocol.PublishDiagnosticsParams
			if err := json.Unmarshal(*req.Params, &params); err == nil {
				ts.diagnosticsCh <- &params
			}
		}
		return nil, nil
	})
	stream := jsonrpc2.NewBufferedStream(&processIO{reader: stdout, writer: stdin}, jsonrpc2.VSCodeObjectCodec{})
	ts.conn = jsonrpc2.NewConn(context.Background(), stream, handler)

	go func() { ts.exited <- cmd.Wait() }()

	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("server stderr:\n%s", stderr.String())
		}
		if err := ts.conn.Close(); err != nil && !errors.Is(err, jsonrpc2.ErrClosed) {
			t.Logf("lsp conn close: %v", err)
		}
		// Wait for process with timeout; kill if it doesn't exit.
		select {
		case <-ts.exited:
		case <-time.After(5 * time.Second):
			if err := cmd.Process.Kill(); err != nil {
				t.Logf("kill lsp server: %v", err)
			}
			<-ts.exited
		}
	})

	return ts
}

// initialize sends initialize + initialized and returns the server capabilities.
func (ts *testServer) initialize(t *testing.T, caps protocol.ClientCapabilities) protocol.InitializeResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result protocol.InitializeResult
	require.NoError(t, ts.conn.Call(ctx, protocol.MethodInitialize, &protocol.InitializeParams{
		ClientInfo: &protocol.ClientInfo{
			Name:    "flir-lsptest",
			Version: "1.0.0",
		},
		Capabilities: caps,
	}, &result))

	require.NoError(t, ts.conn.Notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{}))

	return result
}

const diagTimeout = 10 * time.Second

// waitDiagnostics blocks until a publishDiagnostics notification arrives or timeout.
func (ts *testServer) waitDiagnostics(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()
	select {
	case d := <-ts.diagnosticsCh:
		return d
	case <-time.After(diagTimeout):
		t.Fatal("timed out waiting for diagnostics")
		return nil
	}
}

// waitExit blocks until the subprocess exits and returns its exit error.
func (ts *testServer) waitExit(t *testing.T) error {
	t.Helper()
	select {
	case err := <-ts.exited:
		ts.exited <- err
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server process did not exit")
		return nil
	}
}

// shutdown sends the shutdown request followed by exit notification.
func (ts *testServer) shutdown(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ts.conn.Call(ctx, protocol.MethodShutdown, nil, nil))
	require.NoError(t, ts.conn.Notify(ctx, protocol.MethodExit, nil))
}

// openDocument sends textDocument/didOpen.
func (ts *testServer) openDocument(t *testing.T, uri protocol.DocumentURI, content string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ts.conn.Notify(ctx, protocol.MethodTextDocumentDidOpen, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: "r",
			Version:    1,
			Text:       content,
		},
	}))
}

// changeDocument sends textDocument/didChange with the given edits.
func (ts *testServer) changeDocument(t *testing.T, uri protocol.DocumentURI, version int32, changes ...protocol.TextDocumentContentChangeEvent) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ts.conn.Notify(ctx, protocol.MethodTextDocumentDidChange, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{URI: uri, Version: version},
		ContentChanges: changes,
	}))
}

// closeDocument sends textDocument/didClose.
func (ts *testServer) closeDocument(t *testing.T, uri protocol.DocumentURI) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ts.conn.Notify(ctx, protocol.MethodTextDocumentDidClose, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
}
