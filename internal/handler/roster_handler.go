package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-rating-sync/internal/dto"
	"github.com/noah-isme/sma-rating-sync/internal/models"
	"github.com/noah-isme/sma-rating-sync/internal/service"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/response"
)

type rosterSynchronizer interface {
	Add(ctx context.Context, firstname, lastname, schoolclass, subject string) bool
	Rate(ctx context.Context, id int64, rating int) bool
	Remove(ctx context.Context, id int64) bool
	Reload(ctx context.Context)
	SortedView() []models.Student
	ConfirmationsEnabled() bool
	SetConfirmationsEnabled(enabled bool)
}

type rosterExporter interface {
	Export(format string) (*service.ExportResult, error)
}

// RosterHandler exposes the synchronizer to the presentation layer.
type RosterHandler struct {
	roster   rosterSynchronizer
	exporter rosterExporter
}

// NewRosterHandler constructs RosterHandler.
func NewRosterHandler(roster rosterSynchronizer, exporter rosterExporter) *RosterHandler {
	return &RosterHandler{roster: roster, exporter: exporter}
}

// List godoc
// @Summary Sorted roster
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.roster.SortedView())
}

// Reload godoc
// @Summary Reload roster from the student API
// @Tags Roster
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /roster/reload [post]
func (h *RosterHandler) Reload(c *gin.Context) {
	h.roster.Reload(c.Request.Context())
	response.JSON(c, http.StatusOK, h.roster.SortedView())
}

// Add godoc
// @Summary Add student
// @Tags Roster
// @Accept json
// @Produce json
// @Param payload body dto.AddStudentRequest true "Student"
// @Success 200 {object} response.Result
// @Failure 422 {object} response.Result
// @Router /roster [post]
func (h *RosterHandler) Add(c *gin.Context) {
	var req dto.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.Outcome(c, h.roster.Add(c.Request.Context(), req.Firstname, req.Lastname, req.Schoolclass, req.Subject))
}

// Rate godoc
// @Summary Rate student
// @Tags Roster
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.RateStudentRequest true "Rating"
// @Success 200 {object} response.Result
// @Failure 422 {object} response.Result
// @Router /roster/{id}/rating [put]
func (h *RosterHandler) Rate(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	var req dto.RateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.Outcome(c, h.roster.Rate(c.Request.Context(), id, *req.Rating))
}

// Remove godoc
// @Summary Remove student
// @Tags Roster
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Result
// @Failure 422 {object} response.Result
// @Router /roster/{id} [delete]
func (h *RosterHandler) Remove(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	response.Outcome(c, h.roster.Remove(c.Request.Context(), id))
}

// Export godoc
// @Summary Export sorted roster
// @Tags Roster
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Router /roster/export [get]
func (h *RosterHandler) Export(c *gin.Context) {
	res, err := h.exporter.Export(c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	c.Data(http.StatusOK, res.ContentType, res.Body)
}

// GetConfirmations returns the confirmation flag.
func (h *RosterHandler) GetConfirmations(c *gin.Context) {
	response.JSON(c, http.StatusOK, dto.ConfirmationsResponse{Enabled: h.roster.ConfirmationsEnabled()})
}

// SetConfirmations updates the confirmation flag.
func (h *RosterHandler) SetConfirmations(c *gin.Context) {
	var req dto.ConfirmationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.roster.SetConfirmationsEnabled(*req.Enabled)
	response.JSON(c, http.StatusOK, dto.ConfirmationsResponse{Enabled: h.roster.ConfirmationsEnabled()})
}

func studentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student id"))
		return 0, false
	}
	return id, true
}
