package lspserver

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// Conn is the subset of *jsonrpc2.Conn the server writes through.
type Conn interface {
	Notify(ctx context.Context, method string, params any, opts ...jsonrpc2.CallOption) error
	Reply(ctx context.Context, id jsonrpc2.ID, result any) error
	ReplyWithError(ctx context.Context, id jsonrpc2.ID, respErr *jsonrpc2.Error) error
	Call(ctx context.Context, method string, params, result any, opts ...jsonrpc2.CallOption) error
}

// ResponseCallback receives the result of a server-to-client request. It
// runs on the event loop goroutine.
type ResponseCallback func(result json.RawMessage, err error)

// Client sends messages to the editor. It is shared by the event loop and
// the workers; writes are serialized by the underlying connection.
type Client struct {
	conn   Conn
	events chan<- Event
	log    logrus.FieldLogger

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]ResponseCallback
}

// NewClient wraps conn. Responses to server-initiated requests are posted
// to events and resolved by HandleResponse.
func NewClient(conn Conn, events chan<- Event, log logrus.FieldLogger) *Client {
	return &Client{
		conn:    conn,
		events:  events,
		log:     log,
		pending: make(map[uint64]ResponseCallback),
	}
}

// PublishDiagnostics sends textDocument/publishDiagnostics. A nil slice is
// sent as an empty array so the client clears stale results.
func (c *Client) PublishDiagnostics(ctx context.Context, u protocol.DocumentURI, diags []protocol.Diagnostic, version *int32) error {
	if diags == nil {
		diags = []protocol.Diagnostic{}
	}
	err := c.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         u,
		Version:     version,
		Diagnostics: diags,
	})
	if err != nil {
		return fmt.Errorf("%w: publish diagnostics for %s: %w", ErrTransport, u, err)
	}
	return nil
}

// SendResponse replies to a client request with result.
func (c *Client) SendResponse(ctx context.Context, id jsonrpc2.ID, result any) error {
	if err := c.conn.Reply(ctx, id, result); err != nil {
		return fmt.Errorf("%w: reply to %s: %w", ErrTransport, id, err)
	}
	return nil
}

// SendErrorResponse replies to a client request with an error.
func (c *Client) SendErrorResponse(ctx context.Context, id jsonrpc2.ID, rpcErr *jsonrpc2.Error) error {
	if err := c.conn.ReplyWithError(ctx, id, rpcErr); err != nil {
		return fmt.Errorf("%w: reply to %s: %w", ErrTransport, id, err)
	}
	return nil
}

// send delivers a Response, choosing Reply or ReplyWithError.
func (c *Client) send(ctx context.Context, resp Response) error {
	if resp.Err != nil {
		return c.SendErrorResponse(ctx, resp.ID, resp.Err)
	}
	return c.SendResponse(ctx, resp.ID, resp.Result)
}

// SendRequest issues a server-to-client request without blocking the
// caller. cb is invoked from HandleResponse once the client answers.
func (c *Client) SendRequest(ctx context.Context, method string, params any, cb ResponseCallback) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	if cb != nil {
		c.pending[id] = cb
	}
	c.mu.Unlock()

	go func() {
		var result json.RawMessage
		err := c.conn.Call(ctx, method, params, &result)
		if err != nil {
			err = fmt.Errorf("%s: %w", method, err)
		}
		select {
		case c.events <- EventClientResponse{ID: id, Result: result, Err: err}:
		case <-ctx.Done():
		}
	}()
}

// HandleResponse resolves a pending server-to-client request.
func (c *Client) HandleResponse(ev EventClientResponse) {
	c.mu.Lock()
	cb, ok := c.pending[ev.ID]
	delete(c.pending, ev.ID)
	c.mu.Unlock()

	if !ok {
		if ev.Err != nil {
			c.log.WithError(ev.Err).Debug("client request failed")
		}
		return
	}
	cb(ev.Result, ev.Err)
}

// Pending returns the number of unanswered server-to-client requests.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
