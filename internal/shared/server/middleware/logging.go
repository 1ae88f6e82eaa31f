package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/telemetry"
)

// Context keys handlers set so the request log can report what the pipeline did.
const (
	StageKey          = "stage"
	TemplateKey       = "template"
	DocumentFormatKey = "documentFormat"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if stage := c.GetString(StageKey); stage != "" {
			fields["stage"] = stage
		}
		if tmpl := c.GetString(TemplateKey); tmpl != "" {
			fields["template"] = tmpl
		}
		if format := c.GetString(DocumentFormatKey); format != "" {
			fields["document_format"] = format
		}
		telemetry.Info("request.complete", fields)
	}
}
