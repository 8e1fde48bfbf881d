package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/pkg/jobs"
)

// NotificationConfig tunes dispatch and delivery.
type NotificationConfig struct {
	DisplayTimeout time.Duration
	Workers        int
	BufferSize     int
	MaxRetries     int
	RetryDelay     time.Duration
}

// NotificationService emits structured outcome events. The feed is updated
// inline; every other sink is served from a worker queue so Dispatch never
// waits on sink I/O.
type NotificationService struct {
	feed           *NotificationFeed
	sinks          map[string]NotificationSink
	queue          *jobs.Queue
	metrics        *MetricsService
	logger         *zap.Logger
	displayTimeout time.Duration
	now            func() time.Time
}

// NewNotificationService constructs the dispatcher. Call Start before dispatching.
func NewNotificationService(feed *NotificationFeed, sinks []NotificationSink, cfg NotificationConfig, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if feed == nil {
		feed = NewNotificationFeed()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DisplayTimeout <= 0 {
		cfg.DisplayTimeout = 3 * time.Second
	}
	s := &NotificationService{
		feed:           feed,
		sinks:          make(map[string]NotificationSink, len(sinks)),
		metrics:        metrics,
		logger:         logger,
		displayTimeout: cfg.DisplayTimeout,
		now:            time.Now,
	}
	for _, sink := range sinks {
		if sink != nil {
			s.sinks[sink.Name()] = sink
		}
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Feed exposes the in-memory feed.
func (s *NotificationService) Feed() *NotificationFeed {
	return s.feed
}

// Start launches delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes buffered deliveries and stops the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Dispatch emits n.
func (s *NotificationService) Dispatch(n models.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}
	if n.Timeout <= 0 {
		n.Timeout = s.displayTimeout
	}

	s.feed.Push(n)
	s.metrics.RecordNotification(n.Category, string(n.Severity))

	for name := range s.sinks {
		job := jobs.Job{ID: uuid.NewString(), Type: name, Payload: n}
		if err := s.queue.TryEnqueue(job); err != nil {
			s.metrics.RecordSinkFailure(name)
			s.logger.Warn("notification dropped",
				zap.String("sink", name),
				zap.String("category", n.Category),
				zap.Error(err),
			)
		}
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	sink, ok := s.sinks[job.Type]
	if !ok {
		return nil
	}
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	if err := sink.Deliver(ctx, n); err != nil {
		s.metrics.RecordSinkFailure(job.Type)
		return fmt.Errorf("deliver to %s: %w", job.Type, err)
	}
	return nil
}
