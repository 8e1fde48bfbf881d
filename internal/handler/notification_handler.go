package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-rating-sync/internal/models"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
	"github.com/noah-isme/sma-rating-sync/pkg/response"
)

type notificationFeed interface {
	List() []models.Notification
	Ack(category string) bool
}

type outcomeLister interface {
	ListRecent(ctx context.Context, limit int) ([]models.Outcome, error)
}

// NotificationHandler serves outcome notifications to the host UI.
type NotificationHandler struct {
	feed     notificationFeed
	outcomes outcomeLister
}

// NewNotificationHandler constructs the handler. outcomes may be nil when the journal is disabled.
func NewNotificationHandler(feed notificationFeed, outcomes outcomeLister) *NotificationHandler {
	return &NotificationHandler{feed: feed, outcomes: outcomes}
}

// List godoc
// @Summary Visible notifications, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.feed.List())
}

// Ack godoc
// @Summary Dismiss the notification of a category
// @Tags Notifications
// @Param category path string true "Category"
// @Success 204
// @Router /notifications/{category} [delete]
func (h *NotificationHandler) Ack(c *gin.Context) {
	if !h.feed.Ack(c.Param("category")) {
		response.Error(c, appErrors.New("NOT_FOUND", http.StatusNotFound, "no notification for category"))
		return
	}
	response.NoContent(c)
}

// Outcomes godoc
// @Summary Journaled outcomes
// @Tags Notifications
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {object} response.Envelope
// @Router /outcomes [get]
func (h *NotificationHandler) Outcomes(c *gin.Context) {
	if h.outcomes == nil {
		response.Error(c, appErrors.New("JOURNAL_DISABLED", http.StatusNotFound, "outcome journal disabled"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	outcomes, err := h.outcomes.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outcomes"))
		return
	}
	response.JSON(c, http.StatusOK, outcomes)
}
