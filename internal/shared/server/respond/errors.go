package respond

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if stage := c.GetString("stage"); stage != "" {
		fields["stage"] = stage
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError translates err through the error taxonomy and writes the envelope.
// Rate-limit outcomes also carry a Retry-After header.
func FromError(c *gin.Context, err error, now time.Time) {
	out := apperr.Describe(err, now)
	details := gin.H{"transient": out.Transient}
	if kind, ok := apperr.KindOf(err); ok {
		details["kind"] = string(kind)
	}
	if out.RetryAfter > 0 {
		seconds := int(out.RetryAfter / time.Second)
		c.Header("Retry-After", strconv.Itoa(seconds))
		details["retryAfterSeconds"] = seconds
	}
	if out.Code == apperr.CodeInternal && err != nil {
		telemetry.Error("http.internal_error", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err,
		})
	}
	Error(c, out.Status, out.Code, out.Message, details)
}
