package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/internal/repository/studentapitest"
	"github.com/noah-isme/sma-rating-sync/pkg/auth"
	"github.com/noah-isme/sma-rating-sync/pkg/config"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/middleware/requestid"
)

type observedCall struct {
	operation string
	status    int
}

type recordingObserver struct {
	calls []observedCall
}

func (o *recordingObserver) ObserveRemoteCall(operation string, status int, _ time.Duration) {
	o.calls = append(o.calls, observedCall{operation: operation, status: status})
}

func newAPIRepo(t *testing.T, base string, shape string, signer *auth.Signer) (*StudentAPIRepository, *recordingObserver) {
	t.Helper()
	obs := &recordingObserver{}
	repo := NewStudentAPIRepository(config.APIConfig{Base: base, Timeout: 2 * time.Second, ListShape: shape}, nil, signer, obs, nil)
	return repo, obs
}

func TestStudentAPIRepositoryList(t *testing.T) {
	srv := studentapitest.NewServer(
		models.Student{ID: 3, Firstname: "Anna", Lastname: "Berg", Schoolclass: "10A", Subject: "Math", Rating: 2},
	)
	defer srv.Close()
	repo, obs := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, nil)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, int64(3), students[0].ID)
	assert.Equal(t, 2, students[0].Rating)
	assert.Equal(t, []observedCall{{operation: "reload", status: http.StatusOK}}, obs.calls)
}

func TestStudentAPIRepositoryListBareShape(t *testing.T) {
	srv := studentapitest.NewServer(models.Student{ID: 1, Lastname: "Adler"})
	defer srv.Close()
	srv.ServeBare(true)

	repo, _ := newAPIRepo(t, srv.Base(), config.ShapeBare, nil)
	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)

	envelopeRepo, _ := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, nil)
	_, err = envelopeRepo.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnexpectedShape))
}

func TestStudentAPIRepositoryCreateSendsJSON(t *testing.T) {
	srv := studentapitest.NewServer()
	defer srv.Close()
	repo, _ := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, nil)

	ctx := requestid.WithContext(context.Background(), "req-1")
	err := repo.Create(ctx, models.StudentPayload{Firstname: "Anna", Lastname: "Berg", Schoolclass: "10A", Subject: "Math"})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/api/student", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.Equal(t, "req-1", reqs[0].RequestID)
	assert.Empty(t, reqs[0].Authorization)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, float64(0), body["rating"])
	assert.NotContains(t, body, "id")
	assert.Len(t, body, 5)
}

func TestStudentAPIRepositoryUpdateSendsOnlyMutableFields(t *testing.T) {
	srv := studentapitest.NewServer(models.Student{ID: 7, Firstname: "Jo", Lastname: "Keller", Rating: 2})
	defer srv.Close()
	signer := auth.NewSigner("secret", "test", "session", time.Minute)
	repo, _ := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, signer)

	err := repo.Update(context.Background(), 7, models.StudentPayload{Firstname: "Jo", Lastname: "Keller", Rating: 4})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPut, reqs[0].Method)
	assert.Equal(t, "/api/student/7", reqs[0].Path)
	assert.NotContains(t, string(reqs[0].Body), `"id"`)
	require.True(t, strings.HasPrefix(reqs[0].Authorization, "Bearer "))
	claims, err := auth.Parse(strings.TrimPrefix(reqs[0].Authorization, "Bearer "), "secret")
	require.NoError(t, err)
	assert.Equal(t, "session", claims.Session)
	assert.Equal(t, 4, srv.Students()[0].Rating)
}

func TestStudentAPIRepositoryRejectedStatus(t *testing.T) {
	srv := studentapitest.NewServer(models.Student{ID: 3, Lastname: "Berg"})
	defer srv.Close()
	srv.Fail(http.MethodDelete, http.StatusInternalServerError)
	repo, obs := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, nil)

	err := repo.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrRemoteRejected))
	assert.Contains(t, err.Error(), "FORCED_FAILURE")
	assert.Equal(t, []observedCall{{operation: "remove", status: http.StatusInternalServerError}}, obs.calls)
	assert.Len(t, srv.Students(), 1)
}

func TestStudentAPIRepositoryTransportFailure(t *testing.T) {
	srv := studentapitest.NewServer()
	base := srv.Base()
	srv.Close()
	repo, obs := newAPIRepo(t, base, config.ShapeEnvelope, nil)

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTransport))
	assert.Equal(t, []observedCall{{operation: "reload", status: 0}}, obs.calls)
}

func TestStudentAPIRepositoryOversizedBody(t *testing.T) {
	srv := studentapitest.NewServer()
	defer srv.Close()
	srv.ServeRawList([]byte(`{"data":[{"id":1,"lastname":"Berg"}]}`))
	repo, _ := newAPIRepo(t, srv.Base(), config.ShapeEnvelope, nil)
	repo.maxBody = 16

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrTooLarge))
	assert.False(t, errors.Is(err, appErrors.ErrUnexpectedShape))
	assert.Contains(t, err.Error(), "exceeds 16 bytes")

	repo.maxBody = maxBodyBytes
	students, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, students, 1)
}
