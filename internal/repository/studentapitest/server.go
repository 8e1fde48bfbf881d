// Package studentapitest provides an in-memory student API for tests and local
// runs of the synchronizer.
package studentapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/response"
)

// Request is a recorded call against the fake API.
type Request struct {
	Method        string
	Path          string
	ContentType   string
	Authorization string
	RequestID     string
	Body          []byte
}

// Server serves /api/student from memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	students map[int64]models.Student
	nextID   int64
	failures map[string]int
	requests []Request
	bare     bool
	rawList  []byte
}

// NewServer starts a fake API seeded with students (ids are kept when set).
func NewServer(seed ...models.Student) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{students: make(map[int64]models.Student), nextID: 1, failures: make(map[string]int)}
	for _, st := range seed {
		if st.ID == 0 {
			st.ID = s.nextID
		}
		if st.ID >= s.nextID {
			s.nextID = st.ID + 1
		}
		s.students[st.ID] = st
	}

	r := gin.New()
	r.Use(s.record)
	api := r.Group("/api")
	api.GET("/student", s.list)
	api.POST("/student", s.create)
	api.PUT("/student/:id", s.update)
	api.DELETE("/student/:id", s.delete)

	s.Server = httptest.NewServer(r)
	return s
}

// Base returns the apiBase for this server.
func (s *Server) Base() string {
	return s.URL + "/api"
}

// Fail makes every request with method answer status until cleared with 0.
func (s *Server) Fail(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, method)
		return
	}
	s.failures[method] = status
}

// ServeBare switches list responses to a top-level array.
func (s *Server) ServeBare(bare bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bare = bare
}

// ServeRawList makes GET /student answer body verbatim with 200.
func (s *Server) ServeRawList(body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawList = body
}

// Students returns the server-side collection ordered by id.
func (s *Server) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Requests returns the recorded calls.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CountMethod counts recorded calls with method.
func (s *Server) CountMethod(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (s *Server) sortedLocked() []models.Student {
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Set("body", body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		ContentType:   c.GetHeader("Content-Type"),
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
		Body:          body,
	})
	status, failing := s.failures[c.Request.Method]
	s.mu.Unlock()

	if failing {
		c.AbortWithStatusJSON(status, response.Envelope{Error: appErrors.New("FORCED_FAILURE", status, "forced failure")})
		return
	}
	c.Next()
}

func (s *Server) list(c *gin.Context) {
	s.mu.Lock()
	raw := s.rawList
	bare := s.bare
	students := s.sortedLocked()
	s.mu.Unlock()

	switch {
	case raw != nil:
		c.Data(http.StatusOK, "application/json", raw)
	case bare:
		c.JSON(http.StatusOK, students)
	default:
		c.JSON(http.StatusOK, gin.H{"data": students})
	}
}

func (s *Server) create(c *gin.Context) {
	var payload models.StudentPayload
	if err := json.Unmarshal(c.MustGet("body").([]byte), &payload); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	st := models.Student{
		ID:          s.nextID,
		Firstname:   payload.Firstname,
		Lastname:    payload.Lastname,
		Schoolclass: payload.Schoolclass,
		Subject:     payload.Subject,
		Rating:      payload.Rating,
	}
	s.students[st.ID] = st
	s.nextID++
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"data": st})
}

func (s *Server) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	var payload models.StudentPayload
	if err := json.Unmarshal(c.MustGet("body").([]byte), &payload); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		c.Status(http.StatusNotFound)
		return
	}
	s.students[id] = models.Student{
		ID:          id,
		Firstname:   payload.Firstname,
		Lastname:    payload.Lastname,
		Schoolclass: payload.Schoolclass,
		Subject:     payload.Subject,
		Rating:      payload.Rating,
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		c.Status(http.StatusNotFound)
		return
	}
	delete(s.students, id)
	c.Status(http.StatusNoContent)
}
