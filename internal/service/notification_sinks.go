package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

// NotificationSink receives dispatched notifications on a delivery worker.
type NotificationSink interface {
	Name() string
	Deliver(ctx context.Context, n models.Notification) error
}

type outcomeWriter interface {
	Create(ctx context.Context, outcome *models.Outcome) error
}

// LogSink writes notifications to the process log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink constructs a LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n models.Notification) error {
	fields := []zap.Field{
		zap.String("category", n.Category),
		zap.String("operation", string(n.Operation)),
		zap.String("message", n.Message),
		zap.String("request_id", n.RequestID),
	}
	if n.StudentID != 0 {
		fields = append(fields, zap.Int64("student_id", n.StudentID))
	}
	if n.Severity == models.SeverityFailure {
		s.logger.Warn("roster notification", fields...)
		return nil
	}
	s.logger.Info("roster notification", fields...)
	return nil
}

// JournalSink persists notifications as outcome rows.
type JournalSink struct {
	repo outcomeWriter
}

// NewJournalSink constructs a JournalSink.
func NewJournalSink(repo outcomeWriter) *JournalSink {
	return &JournalSink{repo: repo}
}

func (s *JournalSink) Name() string { return "journal" }

func (s *JournalSink) Deliver(ctx context.Context, n models.Notification) error {
	outcome := models.OutcomeFromNotification(n)
	return s.repo.Create(ctx, &outcome)
}
