package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/internal/service"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
)

type rosterMock struct {
	view          []models.Student
	result        bool
	confirmations bool
	addArgs       []string
	rateID        int64
	rating        int
	removeID      int64
	reloaded      bool
}

func (m *rosterMock) Add(ctx context.Context, firstname, lastname, schoolclass, subject string) bool {
	m.addArgs = []string{firstname, lastname, schoolclass, subject}
	return m.result
}

func (m *rosterMock) Rate(ctx context.Context, id int64, rating int) bool {
	m.rateID, m.rating = id, rating
	return m.result
}

func (m *rosterMock) Remove(ctx context.Context, id int64) bool {
	m.removeID = id
	return m.result
}

func (m *rosterMock) Reload(ctx context.Context) { m.reloaded = true }

func (m *rosterMock) SortedView() []models.Student { return m.view }

func (m *rosterMock) ConfirmationsEnabled() bool { return m.confirmations }

func (m *rosterMock) SetConfirmationsEnabled(enabled bool) { m.confirmations = enabled }

type exporterMock struct {
	res *service.ExportResult
	err error
}

func (m *exporterMock) Export(format string) (*service.ExportResult, error) { return m.res, m.err }

type feedMock struct {
	items []models.Notification
	acked string
}

func (f *feedMock) List() []models.Notification { return f.items }

func (f *feedMock) Ack(category string) bool {
	f.acked = category
	return category == models.CategoryAddError
}

func newTestRouter(roster *rosterMock, exporter *exporterMock, feed *feedMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterConfig{
		Roster:        NewRosterHandler(roster, exporter),
		Notifications: NewNotificationHandler(feed, nil),
		Metrics:       service.NewMetricsService(),
	})
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRosterHandlerList(t *testing.T) {
	roster := &rosterMock{view: []models.Student{{ID: 1, Lastname: "Adler"}}}
	r := newTestRouter(roster, &exporterMock{}, &feedMock{})

	w := serve(r, http.MethodGet, "/roster", "")
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data []models.Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Adler", env.Data[0].Lastname)
}

func TestRosterHandlerAdd(t *testing.T) {
	roster := &rosterMock{result: true}
	r := newTestRouter(roster, &exporterMock{}, &feedMock{})

	w := serve(r, http.MethodPost, "/roster", `{"firstname":"Anna","lastname":"Berg","schoolclass":"10A","subject":"Math"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.Equal(t, []string{"Anna", "Berg", "10A", "Math"}, roster.addArgs)

	roster.result = false
	w = serve(r, http.MethodPost, "/roster", `{"firstname":"Anna"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"ok":false}`, w.Body.String())

	w = serve(r, http.MethodPost, "/roster", `{"firstname":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerRate(t *testing.T) {
	roster := &rosterMock{result: false}
	r := newTestRouter(roster, &exporterMock{}, &feedMock{})

	w := serve(r, http.MethodPut, "/roster/7/rating", `{"rating":9}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, int64(7), roster.rateID)
	assert.Equal(t, 9, roster.rating)

	w = serve(r, http.MethodPut, "/roster/7/rating", `{"rating":0}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, 0, roster.rating)

	w = serve(r, http.MethodPut, "/roster/abc/rating", `{"rating":3}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPut, "/roster/7/rating", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerRemoveAndReload(t *testing.T) {
	roster := &rosterMock{result: true}
	r := newTestRouter(roster, &exporterMock{}, &feedMock{})

	w := serve(r, http.MethodDelete, "/roster/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), roster.removeID)

	w = serve(r, http.MethodPost, "/roster/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, roster.reloaded)
}

func TestRosterHandlerExport(t *testing.T) {
	exporter := &exporterMock{res: &service.ExportResult{Filename: "roster.csv", ContentType: "text/csv", Body: []byte("ID\n")}}
	r := newTestRouter(&rosterMock{}, exporter, &feedMock{})

	w := serve(r, http.MethodGet, "/roster/export?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "roster.csv")

	exporter.err = appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	w = serve(r, http.MethodGet, "/roster/export?format=doc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterHandlerConfirmations(t *testing.T) {
	roster := &rosterMock{confirmations: true}
	r := newTestRouter(roster, &exporterMock{}, &feedMock{})

	w := serve(r, http.MethodPut, "/settings/confirmations", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, roster.confirmations)

	w = serve(r, http.MethodGet, "/settings/confirmations", "")
	assert.JSONEq(t, `{"data":{"enabled":false}}`, w.Body.String())

	w = serve(r, http.MethodPut, "/settings/confirmations", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationHandler(t *testing.T) {
	feed := &feedMock{items: []models.Notification{{Category: models.CategoryAddError, Message: "The student could not be added"}}}
	r := newTestRouter(&rosterMock{}, &exporterMock{}, feed)

	w := serve(r, http.MethodGet, "/notifications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), models.CategoryAddError)

	w = serve(r, http.MethodDelete, "/notifications/"+models.CategoryAddError, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/notifications/OTHER", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/outcomes", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(&rosterMock{}, &exporterMock{}, &feedMock{})
	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health", "").Code)

	w := serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "roster_students")
}
