package lspserver

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/jsonrpc2"
)

// transport owns the JSON-RPC connection. Its handler runs on the
// connection's read goroutine and forwards each decoded message, in
// arrival order, to a bounded channel; a full channel stops reading.
type transport struct {
	conn     *jsonrpc2.Conn
	incoming chan Event

	done      chan struct{}
	closeOnce sync.Once
}

func newTransport(ctx context.Context, rw io.ReadWriteCloser, capacity int, logger *logrus.Logger) *transport {
	t := &transport{
		incoming: make(chan Event, capacity),
		done:     make(chan struct{}),
	}

	rpcLog := logger.WithField("component", "jsonrpc2")
	opts := []jsonrpc2.ConnOpt{jsonrpc2.SetLogger(rpcLog)}
	if logger.IsLevelEnabled(logrus.TraceLevel) {
		opts = append(opts, jsonrpc2.LogMessages(rpcLog))
	}
	stream := jsonrpc2.NewBufferedStream(rw, jsonrpc2.VSCodeObjectCodec{})
	t.conn = jsonrpc2.NewConn(ctx, stream, t, opts...)

	go func() {
		<-t.conn.DisconnectNotify()
		t.post(EventShutdown{})
	}()
	return t
}

// Handle implements jsonrpc2.Handler.
func (t *transport) Handle(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) {
	t.post(EventMessage{Message: DecodeMessage(req)})
}

func (t *transport) post(ev Event) {
	select {
	case t.incoming <- ev:
	case <-t.done:
	}
}

// Close unblocks the handler and closes the connection.
func (t *transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.conn.Close()
	})
	if errors.Is(err, jsonrpc2.ErrClosed) {
		return nil
	}
	return err
}
