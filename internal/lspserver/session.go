package lspserver

import (
	"fmt"
	"sort"

	"github.com/flir-lint/flir/internal/lsp/protocol"
	"github.com/flir-lint/flir/internal/version"
)

const (
	serverName = "flir"

	// diagnosticSource is the "source" of every published diagnostic and
	// the pull-diagnostics provider identifier.
	diagnosticSource = "flir"
)

// SessionState is a step of the protocol lifecycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateInitialized
	StateShutdownRequested
	StateExited
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateShutdownRequested:
		return "shutdown-requested"
	case StateExited:
		return "exited"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

type openDocument struct {
	uri protocol.DocumentURI
	doc *TextDocument
}

// Session holds the negotiated capabilities and the open documents.
// It is owned by the event loop goroutine and is not safe for concurrent
// use; workers only ever see DocumentSnapshots.
type Session struct {
	state        SessionState
	capabilities protocol.ClientCapabilities
	clientInfo   *protocol.ClientInfo
	encoding     PositionEncoding
	pull         bool
	refresh      bool
	documents    map[DocumentKey]*openDocument
}

// NewSession creates an uninitialized session.
func NewSession() *Session {
	return &Session{
		documents: make(map[DocumentKey]*openDocument),
	}
}

// State returns the lifecycle state.
func (s *Session) State() SessionState {
	return s.state
}

// Initialize records the client's capabilities, negotiates the position
// encoding and returns the server's capabilities.
func (s *Session) Initialize(params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if s.state != StateUninitialized {
		return nil, ErrAlreadyInitialized
	}

	caps := params.Capabilities
	s.capabilities = caps
	s.clientInfo = params.ClientInfo

	var offered []protocol.PositionEncodingKind
	if caps.General != nil {
		offered = caps.General.PositionEncodings
	}
	s.encoding = negotiateEncoding(offered)
	s.pull = caps.TextDocument != nil && caps.TextDocument.Diagnostic != nil
	s.refresh = caps.Workspace != nil && caps.Workspace.Diagnostics != nil && caps.Workspace.Diagnostics.RefreshSupport
	s.state = StateInitialized

	result := &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			PositionEncoding: s.encoding.Kind(),
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
				Save:      &protocol.SaveOptions{},
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    serverName,
			Version: version.Version(),
		},
	}
	if s.pull {
		result.Capabilities.DiagnosticProvider = &protocol.DiagnosticOptions{
			Identifier:            diagnosticSource,
			InterFileDependencies: false,
			WorkspaceDiagnostics:  false,
		}
	}
	return result, nil
}

// ClientInfo returns the client's self-description, if it sent one.
func (s *Session) ClientInfo() *protocol.ClientInfo {
	return s.clientInfo
}

// PositionEncoding returns the negotiated encoding (UTF-16 before
// initialize).
func (s *Session) PositionEncoding() PositionEncoding {
	return s.encoding
}

// SupportsPullDiagnostics reports whether the client advertised
// textDocument.diagnostic.
func (s *Session) SupportsPullDiagnostics() bool {
	return s.pull
}

// SupportsDiagnosticRefresh reports whether the client honours
// workspace/diagnostic/refresh.
func (s *Session) SupportsDiagnosticRefresh() bool {
	return s.refresh
}

// OpenDocument inserts doc, replacing any document already open under the
// same key, and returns the key.
func (s *Session) OpenDocument(u protocol.DocumentURI, doc *TextDocument) DocumentKey {
	key := NewDocumentKey(u)
	s.documents[key] = &openDocument{uri: u, doc: doc}
	return key
}

// UpdateDocument applies changes to an open document. On error the
// document is unchanged.
func (s *Session) UpdateDocument(u protocol.DocumentURI, changes []protocol.TextDocumentContentChangeEvent, version int32) error {
	od, ok := s.documents[NewDocumentKey(u)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	return od.doc.Apply(changes, version, s.encoding)
}

// CloseDocument removes a document.
func (s *Session) CloseDocument(u protocol.DocumentURI) error {
	key := NewDocumentKey(u)
	if _, ok := s.documents[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, u)
	}
	delete(s.documents, key)
	return nil
}

// TakeSnapshot copies the current state of a document.
func (s *Session) TakeSnapshot(u protocol.DocumentURI) (DocumentSnapshot, bool) {
	key := NewDocumentKey(u)
	od, ok := s.documents[key]
	if !ok {
		return DocumentSnapshot{}, false
	}
	return s.snapshot(key, od), true
}

func (s *Session) snapshot(key DocumentKey, od *openDocument) DocumentSnapshot {
	return DocumentSnapshot{
		content:      od.doc.content,
		key:          key,
		uri:          od.uri,
		version:      od.doc.version,
		encoding:     s.encoding,
		capabilities: s.capabilities,
	}
}

// Snapshots returns snapshots of every open document ordered by key.
func (s *Session) Snapshots() []DocumentSnapshot {
	keys := make([]DocumentKey, 0, len(s.documents))
	for k := range s.documents {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	snaps := make([]DocumentSnapshot, 0, len(keys))
	for _, k := range keys {
		snaps = append(snaps, s.snapshot(k, s.documents[k]))
	}
	return snaps
}

// DocumentVersion returns the live version of a document.
func (s *Session) DocumentVersion(u protocol.DocumentURI) (int32, bool) {
	od, ok := s.documents[NewDocumentKey(u)]
	if !ok {
		return 0, false
	}
	return od.doc.version, true
}

// DocumentCount returns the number of open documents.
func (s *Session) DocumentCount() int {
	return len(s.documents)
}

// RequestShutdown latches the shutdown request. Calling it again is a no-op.
func (s *Session) RequestShutdown() {
	if s.state < StateShutdownRequested {
		s.state = StateShutdownRequested
	}
}

// IsShutdownRequested reports whether shutdown has been received.
func (s *Session) IsShutdownRequested() bool {
	return s.state >= StateShutdownRequested
}

// MarkExited moves the session to its terminal state.
func (s *Session) MarkExited() {
	s.state = StateExited
}
