// Package service provides the review and progression workflow engine that
// backs the HTTP API.
package service

import (
	"context"
	"sync"

	"github.com/okian/dojo/internal/adapters/mq/queue"
	"github.com/okian/dojo/internal/adapters/mq/worker"
	"github.com/okian/dojo/internal/adapters/repository"
	"github.com/okian/dojo/internal/domain/dedupe"
	"github.com/okian/dojo/internal/domain/scoring"
	"github.com/okian/dojo/pkg/logger"
)

// Default service configuration.
const (
	defaultRequiredReviews   = 3
	defaultMinFeedbackLength = 10
	defaultQueueSize         = 10000
	defaultWorkerCount       = 4
	defaultDedupeSize        = 50000
)

// Service implements every workflow of the platform core: the submission
// ledger, review scoring, reviewer matching, user progression and the
// calendar sync handshake.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	rules   *scoring.Rules
	deduper dedupe.Deduper
	queue   queue.Queue
	pool    *worker.Pool

	// Serializes the multi-step review workflow per submission.
	subLocks keyedMutex

	requiredReviews   int
	minFeedbackLength int
	queueSize         int
	workerCount       int
	dedupeSize        int

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record store. Defaults to a fresh in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRules sets the progression rules.
func WithRules(r *scoring.Rules) Option {
	return func(s *Service) {
		if r != nil {
			s.rules = r
		}
	}
}

// WithRequiredReviews sets the default required review count snapshotted
// onto assignments created without an explicit value.
func WithRequiredReviews(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.requiredReviews = n
		}
	}
}

// WithMinFeedbackLength sets the minimum accepted feedback length.
func WithMinFeedbackLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minFeedbackLength = n
		}
	}
}

// WithQueueSize bounds the activity event queue.
func WithQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithWorkerCount sets the number of activity workers.
func WithWorkerCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithDedupeSize bounds the activity deduplication cache.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rules:             scoring.NewRules(),
		requiredReviews:   defaultRequiredReviews,
		minFeedbackLength: defaultMinFeedbackLength,
		queueSize:         defaultQueueSize,
		workerCount:       defaultWorkerCount,
		dedupeSize:        defaultDedupeSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store, the activity pipeline and the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithLevelFunc(s.rules.Level))
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, &activityRecorder{logger: s.logger.Named("activity")})
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "workflow service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("requiredReviews", s.requiredReviews),
	)
	return nil
}

// Stop shuts down the activity pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "workflow service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["users"] = s.store.CountUsers(ctx)
		stats["submissions"] = s.store.CountSubmissions(ctx)
	}
	return stats
}
