// Package lspserver implements a diagnostics-only Language Server Protocol
// server for R.
//
// A single event loop owns the Session and processes client messages in
// arrival order. Lint work runs on a WorkerPool against immutable document
// snapshots; workers publish diagnostics directly or hand responses back
// to the loop through the event channel.
//
// Transport: stdio (--stdio) via github.com/sourcegraph/jsonrpc2.
package lspserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/flir-lint/flir/internal/config"
	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/lsp/protocol"
	_ "github.com/flir-lint/flir/internal/rules/all" // Register all rules.
	"github.com/flir-lint/flir/internal/watcher"
)

// Options configures a Server.
type Options struct {
	// Linter lints document content. Defaults to linter.New().
	Linter linter.Linter
	// Logger receives server logs. Defaults to the logrus standard logger.
	Logger *logrus.Logger
	// Settings sizes the worker pool and queues. Zero values use defaults.
	Settings config.ServerSettings
	// Metrics is optional.
	Metrics *Metrics
	// WatchConfig enables re-linting when flir.toml files change.
	WatchConfig bool
}

// Server is the flir language server. A Server serves one connection.
type Server struct {
	linter   linter.Linter
	logger   *logrus.Logger
	log      logrus.FieldLogger
	settings config.ServerSettings
	metrics  *Metrics
	watch    bool

	session   *Session
	guard     *publishGuard
	transport *transport
	client    *Client
	watcher   *watcher.Watcher

	tasks    chan Task
	events   chan Event
	deferred []Event
	stopped  bool
}

// New creates a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	settings := opts.Settings
	defaults := config.DefaultServerSettings()
	if settings.Workers < 1 {
		settings.Workers = defaults.Workers
	}
	if settings.QueueCapacity < 1 {
		settings.QueueCapacity = defaults.QueueCapacity
	}
	log := logger.WithField("component", "lsp")
	l := opts.Linter
	if l == nil {
		l = linter.New(linter.WithLogger(log))
	}

	return &Server{
		linter:   l,
		logger:   logger,
		log:      log,
		settings: settings,
		metrics:  opts.Metrics,
		watch:    opts.WatchConfig,
		session:  NewSession(),
		guard:    newPublishGuard(),
		tasks:    make(chan Task, settings.QueueCapacity),
		events:   make(chan Event, settings.QueueCapacity),
	}
}

// Session exposes the server's session state.
func (s *Server) Session() *Session {
	return s.session
}

// RunStdio serves on stdin/stdout.
// It blocks until the client exits, disconnects, or ctx is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Serve(ctx, stdioReadWriteCloser{})
}

// Serve runs the server on rw until the client sends exit, the connection
// closes, or ctx is cancelled. It returns nil on exit or disconnect and a
// wrapped ErrProtocol when the initialize request is malformed.
func (s *Server) Serve(ctx context.Context, rw io.ReadWriteCloser) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.transport = newTransport(ctx, rw, s.settings.QueueCapacity, s.logger)
	defer func() {
		if err := s.transport.Close(); err != nil {
			s.log.WithError(err).Debug("closing connection")
		}
	}()
	s.client = NewClient(s.transport.conn, s.events, s.log)

	proceed, err := s.handshake(ctx)
	if err != nil || !proceed {
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	pool := NewWorkerPool(s.linter, s.tasks, s.events, s.guard, s.metrics, s.log)
	pool.Start(workerCtx, s.settings.Workers)
	s.log.WithField("workers", s.settings.Workers).Debug("worker pool started")

	if s.watch {
		s.startWatcher(ctx)
	}

	err = s.loop(ctx)

	stopWorkers()
	close(s.tasks)
	if werr := pool.Wait(); werr != nil {
		s.log.WithError(werr).Warn("worker pool stopped with error")
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	return err
}

// handshake waits for initialize. It reports whether the main loop should
// run.
func (s *Server) handshake(ctx context.Context) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case ev := <-s.transport.incoming:
			switch ev := ev.(type) {
			case EventShutdown:
				s.log.Info("client disconnected before initialize")
				return false, nil
			case EventMessage:
				if done, err := s.handshakeMessage(ctx, ev.Message); done {
					return err == nil && s.session.State() == StateInitialized, err
				}
			}
		}
	}
}

func (s *Server) handshakeMessage(ctx context.Context, msg Message) (bool, error) {
	switch m := msg.(type) {
	case InitializeRequest:
		result, err := s.session.Initialize(&m.Params)
		if err != nil {
			s.replyError(ctx, m.ID, err)
			return false, nil
		}
		s.log.WithFields(logrus.Fields{
			"client":   clientInfoString(m.Params.ClientInfo),
			"encoding": s.session.PositionEncoding(),
			"pull":     s.session.SupportsPullDiagnostics(),
		}).Info("initialize")
		s.reply(ctx, Response{ID: m.ID, Result: result})
		return true, nil
	case MalformedMessage:
		if m.Notif {
			s.log.WithError(m.Err).WithField("method", m.Method).Warn("dropping malformed notification before initialize")
			return false, nil
		}
		if m.Method == protocol.MethodInitialize {
			s.replyError(ctx, m.ID, m.Err)
			return true, fmt.Errorf("initialize: %w", m.Err)
		}
		s.replyError(ctx, m.ID, ErrNotInitialized)
		return false, nil
	case ExitNotification:
		s.log.Info("exit before initialize")
		s.session.MarkExited()
		return true, nil
	case RequestMessage:
		s.replyError(ctx, m.RequestID(), ErrNotInitialized)
		return false, nil
	default:
		s.log.WithField("message", fmt.Sprintf("%T", msg)).Debug("dropping notification before initialize")
		return false, nil
	}
}

func (s *Server) loop(ctx context.Context) error {
	for !s.stopped {
		if len(s.deferred) > 0 {
			ev := s.deferred[0]
			s.deferred = s.deferred[1:]
			s.handleEvent(ctx, ev)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.transport.incoming:
			s.handleEvent(ctx, ev)
		case ev := <-s.events:
			s.handleEvent(ctx, ev)
		}
	}
	return nil
}

func (s *Server) handleEvent(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case EventMessage:
		s.handleMessage(ctx, ev.Message)
	case EventSendResponse:
		s.reply(ctx, ev.Response)
	case EventClientResponse:
		s.client.HandleResponse(ev)
	case EventConfigChanged:
		s.handleConfigChanged(ctx, ev)
	case EventShutdown:
		s.log.Info("client disconnected")
		s.stopped = true
	}
}

func (s *Server) handleMessage(ctx context.Context, msg Message) {
	if s.session.IsShutdownRequested() && !afterShutdownAllowed(msg) {
		switch m := msg.(type) {
		case RequestMessage:
			s.reply(ctx, Response{ID: m.RequestID(), Err: errShuttingDown()})
		case MalformedMessage:
			if !m.Notif {
				s.reply(ctx, Response{ID: m.ID, Err: errShuttingDown()})
			}
		default:
			s.log.WithField("message", fmt.Sprintf("%T", msg)).Debug("dropping notification after shutdown")
		}
		return
	}

	switch m := msg.(type) {
	case InitializeRequest:
		s.replyError(ctx, m.ID, ErrAlreadyInitialized)
	case InitializedNotification:
		s.log.Debug("client initialized")
	case ShutdownRequest:
		s.session.RequestShutdown()
		s.log.Info("shutdown requested")
		s.reply(ctx, Response{ID: m.ID, Result: nil})
	case ExitNotification:
		if !s.session.IsShutdownRequested() {
			s.log.Warn("exit received without prior shutdown")
		}
		s.session.MarkExited()
		s.stopped = true
	case DidOpenNotification:
		s.didOpen(ctx, m.Params)
	case DidChangeNotification:
		s.didChange(ctx, m.Params)
	case DidSaveNotification:
		s.didSave(ctx, m.Params)
	case DidCloseNotification:
		s.didClose(ctx, m.Params)
	case DiagnosticRequest:
		s.diagnostic(ctx, m)
	case UnknownRequest:
		s.reply(ctx, Response{ID: m.ID, Err: &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "method not found: " + m.Method,
		}})
	case IgnoredNotification:
		s.log.WithField("method", m.Method).Trace("ignoring notification")
	case UnknownNotification:
		s.log.WithField("method", m.Method).Debug("ignoring unknown notification")
	case MalformedMessage:
		if m.Notif {
			s.log.WithError(m.Err).WithField("method", m.Method).Warn("dropping malformed notification")
			return
		}
		s.replyError(ctx, m.ID, m.Err)
	}
}

func afterShutdownAllowed(msg Message) bool {
	switch msg.(type) {
	case ShutdownRequest, ExitNotification:
		return true
	}
	return false
}

func errShuttingDown() *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidRequest, Message: "server is shutting down"}
}

func (s *Server) didOpen(ctx context.Context, params protocol.DidOpenTextDocumentParams) {
	item := params.TextDocument
	doc := NewTextDocument(item.Text, item.Version, item.LanguageID)
	s.session.OpenDocument(item.URI, doc)
	s.metrics.setOpenDocuments(s.session.DocumentCount())
	s.log.WithFields(logrus.Fields{"uri": item.URI, "version": item.Version}).Debug("document opened")

	snap, _ := s.session.TakeSnapshot(item.URI)
	s.watchDocument(snap)
	if !s.session.SupportsPullDiagnostics() {
		s.enqueue(ctx, s.lintTask(snap))
	}
}

func (s *Server) didChange(ctx context.Context, params protocol.DidChangeTextDocumentParams) {
	id := params.TextDocument
	log := s.log.WithFields(logrus.Fields{"uri": id.URI, "version": id.Version})
	if err := s.session.UpdateDocument(id.URI, params.ContentChanges, id.Version); err != nil {
		log.WithError(err).Warn("rejecting document change")
		return
	}
	log.Trace("document changed")

	if !s.session.SupportsPullDiagnostics() {
		s.lintOpenDocument(ctx, id.URI)
	}
}

func (s *Server) didSave(ctx context.Context, params protocol.DidSaveTextDocumentParams) {
	if !s.session.SupportsPullDiagnostics() {
		s.lintOpenDocument(ctx, params.TextDocument.URI)
	}
}

func (s *Server) didClose(ctx context.Context, params protocol.DidCloseTextDocumentParams) {
	u := params.TextDocument.URI
	log := s.log.WithField("uri", u)
	if err := s.session.CloseDocument(u); err != nil {
		log.WithError(err).Warn("close for unknown document")
		return
	}
	s.metrics.setOpenDocuments(s.session.DocumentCount())
	log.Debug("document closed")

	var err error
	s.guard.Retire(NewDocumentKey(u), func() {
		err = s.client.PublishDiagnostics(ctx, u, nil, nil)
	})
	if err != nil {
		log.WithError(err).Warn("failed to clear diagnostics")
	}
}

func (s *Server) diagnostic(ctx context.Context, req DiagnosticRequest) {
	snap, ok := s.session.TakeSnapshot(req.Params.TextDocument.URI)
	if !ok {
		s.replyError(ctx, req.ID, ErrUnknownDocument)
		return
	}
	s.enqueue(ctx, DiagnosticRequestTask{Snapshot: snap, RequestID: req.ID})
}

func (s *Server) lintOpenDocument(ctx context.Context, u protocol.DocumentURI) {
	snap, ok := s.session.TakeSnapshot(u)
	if !ok {
		return
	}
	s.enqueue(ctx, s.lintTask(snap))
}

// lintTask starts a new publish generation for snap, superseding any lint
// of the same document still in flight.
func (s *Server) lintTask(snap DocumentSnapshot) LintDocumentTask {
	return LintDocumentTask{Snapshot: snap, Generation: s.guard.Track(snap.Key()), Client: s.client}
}

// enqueue hands task to the workers. While the task queue is full it keeps
// draining the event channel so workers blocked on sending an event can
// finish; responses are written immediately and other events are deferred
// until the loop resumes.
func (s *Server) enqueue(ctx context.Context, task Task) bool {
	for {
		select {
		case s.tasks <- task:
			return true
		case ev := <-s.events:
			switch ev.(type) {
			case EventSendResponse, EventClientResponse:
				s.handleEvent(ctx, ev)
			default:
				s.deferred = append(s.deferred, ev)
			}
		case <-ctx.Done():
			return false
		}
	}
}

func (s *Server) handleConfigChanged(ctx context.Context, ev EventConfigChanged) {
	log := s.log.WithField("paths", ev.Paths)
	if s.session.SupportsPullDiagnostics() {
		if !s.session.SupportsDiagnosticRefresh() {
			log.Debug("config changed; client does not support diagnostic refresh")
			return
		}
		s.client.SendRequest(ctx, protocol.MethodWorkspaceDiagnosticRefresh, nil, func(_ json.RawMessage, err error) {
			if err != nil {
				log.WithError(err).Warn("diagnostic refresh failed")
			}
		})
		return
	}

	snaps := s.session.Snapshots()
	log.WithField("documents", len(snaps)).Info("config changed; re-linting open documents")
	for _, snap := range snaps {
		if !s.enqueue(ctx, s.lintTask(snap)) {
			return
		}
	}
}

func (s *Server) startWatcher(ctx context.Context) {
	w, err := watcher.New(
		[]string{config.FileName, config.HiddenFileName},
		func(paths []string) {
			select {
			case s.events <- EventConfigChanged{Paths: paths}:
			case <-ctx.Done():
			}
		},
		watcher.DefaultDebounce,
		s.log,
	)
	if err != nil {
		s.log.WithError(err).Warn("config watching disabled")
		return
	}
	s.watcher = w
}

// watchDocument watches the document's directory and the directory of
// the config file that governs it.
func (s *Server) watchDocument(snap DocumentSnapshot) {
	if s.watcher == nil {
		return
	}
	path := snap.FilePath()
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	dirs := []string{dir}
	if cfg := config.Discover(dir); cfg != "" {
		dirs = append(dirs, filepath.Dir(cfg))
	}
	for _, d := range dirs {
		if err := s.watcher.Add(d); err != nil {
			s.log.WithError(err).Debug("cannot watch directory")
		}
	}
}

func (s *Server) reply(ctx context.Context, resp Response) {
	if err := s.client.send(ctx, resp); err != nil {
		s.log.WithError(err).WithField("id", resp.ID.String()).Warn("failed to send response")
	}
}

func (s *Server) replyError(ctx context.Context, id jsonrpc2.ID, err error) {
	s.reply(ctx, Response{ID: id, Err: toRPCError(err)})
}

// clientInfoString formats client info for logging.
func clientInfoString(info *protocol.ClientInfo) string {
	if info == nil {
		return "unknown"
	}
	if info.Version != "" {
		return info.Name + " " + info.Version
	}
	return info.Name
}

// stdioReadWriteCloser wraps stdin/stdout as an io.ReadWriteCloser for JSON-RPC.
type stdioReadWriteCloser struct{}

func (stdioReadWriteCloser) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriteCloser) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioReadWriteCloser) Close() error                { return nil }
