package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/telemetry"
)

// Quota admits each request against profile, keyed by client IP.
// Denied requests get a 429 and never reach the handler.
func Quota(gate *quota.Gate, profile quota.Profile) gin.HandlerFunc {
	return func(c *gin.Context) {
		if gate == nil || profile.Unlimited() {
			c.Next()
			return
		}

		decision, err := gate.Admit(c.Request.Context(), c.ClientIP(), profile)
		if err != nil {
			telemetry.Error("quota.admit.failed", map[string]any{
				"request_id": RequestIDFromContext(c),
				"profile":    profile.Name,
				"err":        err,
			})
			respond.FromError(c, err, gate.Now())
			return
		}

		SetQuotaHeaders(c, decision)
		if !decision.Allowed {
			metrics.IncQuotaDenied(profile.Name)
			respond.FromError(c, decision.Err(), gate.Now())
			return
		}
		c.Next()
	}
}

// SetQuotaHeaders writes the X-RateLimit-* headers for a decision.
func SetQuotaHeaders(c *gin.Context, d quota.Decision) {
	if d.Limit <= 0 {
		return
	}
	h := c.Writer.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}
