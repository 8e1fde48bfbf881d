package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rating-sync/internal/models"
)

func newOutcomeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestOutcomeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newOutcomeRepoMock(t)
	defer cleanup()

	repo := NewOutcomeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_outcomes")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	outcome := models.OutcomeFromNotification(models.Notification{
		Severity:  models.SeverityFailure,
		Message:   "The student could not be removed",
		Category:  models.CategoryRemoveError,
		Operation: models.OperationRemove,
		StudentID: 3,
		RequestID: "req-1",
	})
	require.NoError(t, repo.Create(context.Background(), &outcome))
	assert.NotEmpty(t, outcome.ID)
	assert.False(t, outcome.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeRepositoryListRecent(t *testing.T) {
	db, mock, cleanup := newOutcomeRepoMock(t)
	defer cleanup()

	repo := NewOutcomeRepository(db)
	rows := sqlmock.NewRows([]string{"id", "operation", "severity", "category", "message", "student_id", "request_id", "created_at"}).
		AddRow("o-1", "reload", "failure", models.CategoryLoadError, "The student data could not be loaded", nil, "req-9", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, operation, severity")).
		WithArgs(50).
		WillReturnRows(rows)

	list, err := repo.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "o-1", list[0].ID)
	assert.Nil(t, list[0].StudentID)
	require.NotNil(t, list[0].RequestID)
	assert.Equal(t, "req-9", *list[0].RequestID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutcomeRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newOutcomeRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS roster_outcomes")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewOutcomeRepository(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
