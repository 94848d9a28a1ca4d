// Package worker drains the activity queue and records each event.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/dojo/internal/adapters/mq/queue"
	"github.com/okian/dojo/pkg/logger"
	"github.com/okian/dojo/pkg/metrics"
)

const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Event is what workers read off the queue.
type Event = queue.Event

// Recorder consumes one activity event. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes activity events until stopped.
type Worker struct {
	queue    Queue
	recorder Recorder
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, rec Recorder, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		recorder: rec,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop. Returns when ctx is canceled, the worker is
// shut down, or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			w.process(ctx, e)
		}
	}
}

func (w *Worker) process(ctx context.Context, e Event) {
	start := time.Now()
	err := w.recorder.Record(ctx, e)
	metrics.RecordActivityLatency(float64(time.Since(start).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "recording activity failed",
			logger.String("eventID", e.EventID),
			logger.Error(err),
		)
		return
	}
	metrics.RecordActivityEvent()
}

// Shutdown stops the worker and waits for it to finish or ctx to expire.
// Safe to call more than once.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.signalShutdown()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) signalShutdown() {
	w.stopOnce.Do(func() {
		close(w.shutdown)
	})
}

// Pool manages a fixed set of workers draining one queue.
type Pool struct {
	workers []*Worker

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, q Queue, rec Recorder) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, rec, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits for each, bounded per worker.
// Safe to call more than once.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signalShutdown()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
	metrics.UpdateWorkerCount(0)
}
