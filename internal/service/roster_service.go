package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/middleware/requestid"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Create(ctx context.Context, payload models.StudentPayload) error
	Update(ctx context.Context, id int64, payload models.StudentPayload) error
	Delete(ctx context.Context, id int64) error
}

type notifier interface {
	Dispatch(n models.Notification)
}

var ratingRule = fmt.Sprintf("min=%d,max=%d", models.MinRating, models.MaxRating)

// RosterConfig holds the synchronizer settings.
type RosterConfig struct {
	ConfirmationsEnabled bool
}

// rosterState is the local copy of the roster. The mutex keeps concurrent
// bridge requests memory-safe; operations themselves are not serialized and
// the last reload to land wins.
type rosterState struct {
	mu            sync.RWMutex
	students      []models.Student
	confirmations bool
}

func (st *rosterState) indexOf(id int64) int {
	for i := range st.students {
		if st.students[i].ID == id {
			return i
		}
	}
	return -1
}

// RosterService owns the local roster and mirrors every change to the student API.
// Operations ignore caller cancellation; the HTTP client timeout bounds each call.
type RosterService struct {
	repo      studentRepository
	notifier  notifier
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	state     rosterState
}

// NewRosterService constructs the synchronizer with an empty roster.
func NewRosterService(repo studentRepository, notifier notifier, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg RosterConfig) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{
		repo:      repo,
		notifier:  notifier,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		state: rosterState{
			students:      []models.Student{},
			confirmations: cfg.ConfirmationsEnabled,
		},
	}
}

// Start performs the initial reload.
func (s *RosterService) Start(ctx context.Context) {
	s.Reload(ctx)
	s.logger.Info("roster loaded", zap.Int("students", len(s.Students())))
}

// Add creates a student with rating 0 and reloads the roster on success.
func (s *RosterService) Add(ctx context.Context, firstname, lastname, schoolclass, subject string) bool {
	ctx, reqID := requestid.Ensure(ctx)
	ctx = context.WithoutCancel(ctx)
	candidate := models.Student{
		Firstname:   firstname,
		Lastname:    lastname,
		Schoolclass: schoolclass,
		Subject:     subject,
		Rating:      0,
	}

	if err := s.repo.Create(ctx, candidate.Payload()); err != nil {
		s.logger.Warn("add student failed", zap.String("request_id", reqID), zap.Error(err))
		s.fail(reqID, models.OperationAdd, models.CategoryAddError, msgAddFailed, 0)
		return false
	}

	s.Reload(ctx)
	s.confirm(reqID, models.OperationAdd, models.CategoryAddSuccess, addedMessage(candidate), 0)
	return true
}

// Rate sets the rating of student id. The local copy is updated before the
// request is sent and is not rolled back when the request fails; the failure
// notification tells the user the value may be stale until the next reload.
func (s *RosterService) Rate(ctx context.Context, id int64, rating int) bool {
	ctx, reqID := requestid.Ensure(ctx)
	ctx = context.WithoutCancel(ctx)

	if err := s.validator.Var(rating, ratingRule); err != nil {
		s.logger.Info("rating rejected",
			zap.String("request_id", reqID),
			zap.Int64("student_id", id),
			zap.Int("rating", rating),
			zap.Error(appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "rating out of range")),
		)
		s.fail(reqID, models.OperationRate, models.CategoryIllegalRating, msgIllegalRating, id)
		return false
	}

	s.state.mu.Lock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		s.state.mu.Unlock()
		s.logNotFound(reqID, models.OperationRate, id)
		return false
	}
	s.state.students[idx].Rating = rating
	student := s.state.students[idx]
	s.state.mu.Unlock()

	if err := s.repo.Update(ctx, id, student.Payload()); err != nil {
		s.logger.Warn("rate student failed", zap.String("request_id", reqID), zap.Int64("student_id", id), zap.Error(err))
		s.fail(reqID, models.OperationRate, models.CategoryRateError, msgRateFailed, id)
		return false
	}

	s.Reload(ctx)
	s.confirm(reqID, models.OperationRate, models.CategoryRateSuccess, ratedMessage(student, rating), id)
	return true
}

// Remove deletes student id and reloads the roster on success.
func (s *RosterService) Remove(ctx context.Context, id int64) bool {
	ctx, reqID := requestid.Ensure(ctx)
	ctx = context.WithoutCancel(ctx)

	student, ok := s.find(id)
	if !ok {
		s.logNotFound(reqID, models.OperationRemove, id)
		return false
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("remove student failed", zap.String("request_id", reqID), zap.Int64("student_id", id), zap.Error(err))
		s.fail(reqID, models.OperationRemove, models.CategoryRemoveError, msgRemoveFailed, id)
		return false
	}

	s.Reload(ctx)
	s.confirm(reqID, models.OperationRemove, models.CategoryRemoveSuccess, removedMessage(student), id)
	return true
}

// Reload replaces the roster with the server's collection. On failure the
// roster is cleared so stale data is not mistaken for current truth.
func (s *RosterService) Reload(ctx context.Context) {
	ctx, reqID := requestid.Ensure(ctx)
	ctx = context.WithoutCancel(ctx)

	students, err := s.repo.List(ctx)
	if err != nil {
		s.replace([]models.Student{})
		s.logger.Warn("reload roster failed", zap.String("request_id", reqID), zap.Error(err))
		s.fail(reqID, models.OperationReload, models.CategoryLoadError, msgLoadFailed, 0)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	s.replace(students)
}

// Students returns a copy of the roster in server order.
func (s *RosterService) Students() []models.Student {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	out := make([]models.Student, len(s.state.students))
	copy(out, s.state.students)
	return out
}

// SortedView returns the roster stable-sorted by last name. It is computed on every call.
func (s *RosterService) SortedView() []models.Student {
	out := s.Students()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Lastname < out[j].Lastname
	})
	return out
}

// ConfirmationsEnabled reports whether successes are announced.
func (s *RosterService) ConfirmationsEnabled() bool {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return s.state.confirmations
}

// SetConfirmationsEnabled toggles success notifications.
func (s *RosterService) SetConfirmationsEnabled(enabled bool) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.confirmations = enabled
}

func (s *RosterService) find(id int64) (models.Student, bool) {
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	idx := s.state.indexOf(id)
	if idx < 0 {
		return models.Student{}, false
	}
	return s.state.students[idx], true
}

func (s *RosterService) replace(students []models.Student) {
	s.state.mu.Lock()
	s.state.students = students
	s.state.mu.Unlock()
	s.metrics.SetRosterSize(len(students))
}

// logNotFound reports an id missing from the local roster. No notification is sent.
func (s *RosterService) logNotFound(reqID string, op models.Operation, id int64) {
	s.logger.Error("student not in local roster",
		zap.String("request_id", reqID),
		zap.String("operation", string(op)),
		zap.Int64("student_id", id),
		zap.Error(appErrors.ErrNotFoundLocal),
	)
}

func (s *RosterService) fail(reqID string, op models.Operation, category, message string, studentID int64) {
	s.emit(models.Notification{
		Severity:  models.SeverityFailure,
		Message:   message,
		Category:  category,
		Operation: op,
		RequestID: reqID,
		StudentID: studentID,
	})
}

func (s *RosterService) confirm(reqID string, op models.Operation, category, message string, studentID int64) {
	if !s.ConfirmationsEnabled() {
		return
	}
	s.emit(models.Notification{
		Severity:  models.SeveritySuccess,
		Message:   message,
		Category:  category,
		Operation: op,
		RequestID: reqID,
		StudentID: studentID,
	})
}

func (s *RosterService) emit(n models.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(n)
}
