package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
)

// Envelope represents the common response contract. The remote student API
// wraps its list responses in the same shape.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// RawEnvelope is the decoding counterpart of Envelope. Data stays raw so the
// caller can tell an absent or null data field from an empty list.
type RawEnvelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

// Result is the payload for operations that report plain success or failure.
type Result struct {
	OK bool `json:"ok"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Outcome maps an operation result to 200 or 422 with an {"ok":bool} payload.
func Outcome(c *gin.Context, ok bool) {
	status := http.StatusOK
	if !ok {
		status = appErrors.ErrOperationFailed.Status
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Result{OK: ok})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
