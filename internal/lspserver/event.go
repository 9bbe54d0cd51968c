package lspserver

import (
	"encoding/json"

	"github.com/sourcegraph/jsonrpc2"
)

// Event is an input to the event loop: a client message, a response
// produced by a worker, or a signal from the transport or config watcher.
type Event interface {
	isEvent()
}

// Response is a reply to a client request.
type Response struct {
	ID     jsonrpc2.ID
	Result any
	Err    *jsonrpc2.Error
}

type (
	EventMessage struct {
		Message Message
	}
	// EventSendResponse asks the loop to reply to a client request.
	EventSendResponse struct {
		Response Response
	}
	// EventShutdown is posted when the transport disconnects.
	EventShutdown struct{}
	// EventClientResponse resolves a server-to-client request.
	EventClientResponse struct {
		ID     uint64
		Result json.RawMessage
		Err    error
	}
	// EventConfigChanged is posted after flir.toml files change on disk.
	EventConfigChanged struct {
		Paths []string
	}
)

func (EventMessage) isEvent()        {}
func (EventSendResponse) isEvent()   {}
func (EventShutdown) isEvent()       {}
func (EventClientResponse) isEvent() {}
func (EventConfigChanged) isEvent()  {}

// Task is a unit of lint work run by the worker pool.
type Task interface {
	kind() string
}

// LintDocumentTask lints a snapshot and publishes the result unless a
// newer lint of the document was started or the document was closed.
type LintDocumentTask struct {
	Snapshot DocumentSnapshot
	// Generation is the publish generation the task was created under.
	Generation uint64
	Client     *Client
}

// DiagnosticRequestTask lints a snapshot to answer a pull request. The
// report goes back through the event channel as an EventSendResponse.
type DiagnosticRequestTask struct {
	Snapshot  DocumentSnapshot
	RequestID jsonrpc2.ID
}

func (LintDocumentTask) kind() string      { return "lint" }
func (DiagnosticRequestTask) kind() string { return "diagnostic" }
