package lspserver

import (
	"errors"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

var (
	// ErrProtocol marks malformed or semantically invalid client input.
	ErrProtocol = errors.New("protocol error")
	// ErrUnknownDocument is returned for a URI that is not open.
	ErrUnknownDocument = errors.New("document not found")
	// ErrStaleVersion is returned when an update does not increase the
	// document version.
	ErrStaleVersion = errors.New("stale document version")
	// ErrOutOfBounds is returned for offsets or positions outside the text.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrLintEngine wraps failures reported by the linter.
	ErrLintEngine = errors.New("lint engine error")
	// ErrTransport wraps failures writing to the client.
	ErrTransport = errors.New("transport error")
	// ErrAlreadyInitialized is returned by a second initialize.
	ErrAlreadyInitialized = errors.New("server already initialized")
	// ErrNotInitialized is returned for requests before initialize.
	ErrNotInitialized = errors.New("server not initialized")
)

// toRPCError maps an internal error to the JSON-RPC error sent to the client.
func toRPCError(err error) *jsonrpc2.Error {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	switch {
	case errors.Is(err, ErrUnknownDocument):
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: ErrUnknownDocument.Error()}
	case errors.Is(err, ErrProtocol):
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	case errors.Is(err, ErrNotInitialized):
		return &jsonrpc2.Error{Code: protocol.CodeServerNotInitialized, Message: ErrNotInitialized.Error()}
	case errors.Is(err, ErrAlreadyInitialized):
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: ErrAlreadyInitialized.Error()}
	default:
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInternalError, Message: err.Error()}
	}
}
