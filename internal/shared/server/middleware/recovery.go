package middleware

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 internal_error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"stage":      c.GetString(StageKey),
				})
				respond.FromError(c, fmt.Errorf("panic: %v", rec), time.Now())
			}
		}()
		c.Next()
	}
}
