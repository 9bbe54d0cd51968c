package lspserver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/flir-lint/flir/internal/linter"
	"github.com/flir-lint/flir/internal/lsp/protocol"
)

// WorkerPool runs lint tasks on a fixed number of goroutines. Workers
// receive tasks and send events; they never touch the Session.
type WorkerPool struct {
	linter  linter.Linter
	guard   *publishGuard
	metrics *Metrics
	log     logrus.FieldLogger

	tasks  <-chan Task
	events chan<- Event
	group  *errgroup.Group
}

// NewWorkerPool creates a pool that reads tasks and reports to events.
func NewWorkerPool(l linter.Linter, tasks <-chan Task, events chan<- Event, guard *publishGuard, metrics *Metrics, log logrus.FieldLogger) *WorkerPool {
	return &WorkerPool{
		linter:  l,
		guard:   guard,
		metrics: metrics,
		log:     log,
		tasks:   tasks,
		events:  events,
	}
}

// Start launches n workers. They stop when ctx is cancelled or the task
// channel is closed.
func (p *WorkerPool) Start(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}
	p.group, ctx = errgroup.WithContext(ctx)
	for i := range n {
		log := p.log.WithField("worker", i)
		p.group.Go(func() error {
			p.work(ctx, log)
			return nil
		})
	}
}

// Wait blocks until every worker has returned.
func (p *WorkerPool) Wait() error {
	if p.group == nil {
		return nil
	}
	return p.group.Wait()
}

func (p *WorkerPool) work(ctx context.Context, log logrus.FieldLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			p.run(ctx, task, log)
		}
	}
}

func (p *WorkerPool) run(ctx context.Context, task Task, log logrus.FieldLogger) {
	switch t := task.(type) {
	case LintDocumentTask:
		p.lintDocument(ctx, t, log)
	case DiagnosticRequestTask:
		p.answerDiagnostic(ctx, t, log)
	default:
		log.Errorf("unknown task type %T", task)
	}
}

func (p *WorkerPool) lint(snap DocumentSnapshot, log logrus.FieldLogger) []protocol.Diagnostic {
	start := time.Now()
	diags := lintSnapshot(p.linter, snap, log)
	p.metrics.observeLint(time.Since(start).Seconds())
	return diags
}

func (p *WorkerPool) lintDocument(ctx context.Context, t LintDocumentTask, log logrus.FieldLogger) {
	snap := t.Snapshot
	log = log.WithFields(logrus.Fields{"uri": snap.URI(), "version": snap.Version()})
	diags := p.lint(snap, log)

	version := snap.Version()
	var err error
	published := p.guard.Publish(snap.Key(), t.Generation, func() {
		err = t.Client.PublishDiagnostics(ctx, snap.URI(), diags, &version)
	})
	switch {
	case !published:
		p.metrics.stale()
		p.metrics.taskDone(t.kind(), "stale")
		log.Debug("dropping superseded diagnostics")
	case err != nil:
		p.metrics.taskDone(t.kind(), "error")
		log.WithError(err).Warn("failed to publish diagnostics")
	default:
		p.metrics.taskDone(t.kind(), "published")
		log.WithField("count", len(diags)).Debug("published diagnostics")
	}
}

func (p *WorkerPool) answerDiagnostic(ctx context.Context, t DiagnosticRequestTask, log logrus.FieldLogger) {
	snap := t.Snapshot
	log = log.WithFields(logrus.Fields{"uri": snap.URI(), "version": snap.Version()})
	report := protocol.FullDocumentDiagnosticReport{
		Kind:  protocol.DiagnosticReportFull,
		Items: p.lint(snap, log),
	}

	ev := EventSendResponse{Response: Response{ID: t.RequestID, Result: report}}
	select {
	case p.events <- ev:
		p.metrics.taskDone(t.kind(), "replied")
	case <-ctx.Done():
		p.metrics.taskDone(t.kind(), "error")
		log.Debug("server stopping, diagnostic report dropped")
	}
}
