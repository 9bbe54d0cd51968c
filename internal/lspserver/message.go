package lspserver

import (
	"encoding/json"
	"fmt"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// Message is a client message decoded at the transport boundary. The
// set of variants is closed; the event loop switches on the concrete type.
type Message interface {
	isMessage()
}

// RequestMessage is a Message that expects a response.
type RequestMessage interface {
	Message
	RequestID() jsonrpc2.ID
}

type (
	InitializeRequest struct {
		ID     jsonrpc2.ID
		Params protocol.InitializeParams
	}
	ShutdownRequest struct {
		ID jsonrpc2.ID
	}
	DiagnosticRequest struct {
		ID     jsonrpc2.ID
		Params protocol.DocumentDiagnosticParams
	}
	// UnknownRequest is answered with MethodNotFound.
	UnknownRequest struct {
		ID     jsonrpc2.ID
		Method string
	}

	InitializedNotification struct{}
	ExitNotification        struct{}
	DidOpenNotification     struct {
		Params protocol.DidOpenTextDocumentParams
	}
	DidChangeNotification struct {
		Params protocol.DidChangeTextDocumentParams
	}
	DidSaveNotification struct {
		Params protocol.DidSaveTextDocumentParams
	}
	DidCloseNotification struct {
		Params protocol.DidCloseTextDocumentParams
	}
	// IgnoredNotification is a known notification the server does not act on.
	IgnoredNotification struct {
		Method string
	}
	UnknownNotification struct {
		Method string
	}

	// MalformedMessage carries a message whose params failed to decode.
	// Requests are answered with InvalidParams.
	MalformedMessage struct {
		ID     jsonrpc2.ID
		Method string
		Notif  bool
		Err    error
	}
)

func (InitializeRequest) isMessage()       {}
func (ShutdownRequest) isMessage()         {}
func (DiagnosticRequest) isMessage()       {}
func (UnknownRequest) isMessage()          {}
func (InitializedNotification) isMessage() {}
func (ExitNotification) isMessage()        {}
func (DidOpenNotification) isMessage()     {}
func (DidChangeNotification) isMessage()   {}
func (DidSaveNotification) isMessage()     {}
func (DidCloseNotification) isMessage()    {}
func (IgnoredNotification) isMessage()     {}
func (UnknownNotification) isMessage()     {}
func (MalformedMessage) isMessage()        {}

func (m InitializeRequest) RequestID() jsonrpc2.ID { return m.ID }
func (m ShutdownRequest) RequestID() jsonrpc2.ID   { return m.ID }
func (m DiagnosticRequest) RequestID() jsonrpc2.ID { return m.ID }
func (m UnknownRequest) RequestID() jsonrpc2.ID    { return m.ID }

// DecodeMessage converts a raw JSON-RPC request into a Message.
func DecodeMessage(req *jsonrpc2.Request) Message {
	if !req.Notif {
		return decodeRequest(req)
	}
	return decodeNotification(req)
}

func decodeRequest(req *jsonrpc2.Request) Message {
	malformed := func(err error) Message {
		return MalformedMessage{ID: req.ID, Method: req.Method, Err: err}
	}

	switch req.Method {
	case protocol.MethodInitialize:
		var params protocol.InitializeParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		return InitializeRequest{ID: req.ID, Params: params}
	case protocol.MethodShutdown:
		return ShutdownRequest{ID: req.ID}
	case protocol.MethodTextDocumentDiagnostic:
		var params protocol.DocumentDiagnosticParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		if params.TextDocument.URI == "" {
			return malformed(fmt.Errorf("%w: missing textDocument.uri", ErrProtocol))
		}
		return DiagnosticRequest{ID: req.ID, Params: params}
	default:
		return UnknownRequest{ID: req.ID, Method: req.Method}
	}
}

func decodeNotification(req *jsonrpc2.Request) Message {
	malformed := func(err error) Message {
		return MalformedMessage{Method: req.Method, Notif: true, Err: err}
	}

	switch req.Method {
	case protocol.MethodInitialized:
		return InitializedNotification{}
	case protocol.MethodExit:
		return ExitNotification{}
	case protocol.MethodTextDocumentDidOpen:
		var params protocol.DidOpenTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		if params.TextDocument.URI == "" {
			return malformed(fmt.Errorf("%w: missing textDocument.uri", ErrProtocol))
		}
		return DidOpenNotification{Params: params}
	case protocol.MethodTextDocumentDidChange:
		var params protocol.DidChangeTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		if params.TextDocument.URI == "" {
			return malformed(fmt.Errorf("%w: missing textDocument.uri", ErrProtocol))
		}
		return DidChangeNotification{Params: params}
	case protocol.MethodTextDocumentDidSave:
		var params protocol.DidSaveTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		return DidSaveNotification{Params: params}
	case protocol.MethodTextDocumentDidClose:
		var params protocol.DidCloseTextDocumentParams
		if err := decodeParams(req, &params); err != nil {
			return malformed(err)
		}
		return DidCloseNotification{Params: params}
	case protocol.MethodCancelRequest, protocol.MethodSetTrace:
		return IgnoredNotification{Method: req.Method}
	default:
		return UnknownNotification{Method: req.Method}
	}
}

func decodeParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return fmt.Errorf("%w: missing params for %s", ErrProtocol, req.Method)
	}
	if err := json.Unmarshal(*req.Params, v); err != nil {
		return fmt.Errorf("%w: invalid params for %s: %w", ErrProtocol, req.Method, err)
	}
	return nil
}
