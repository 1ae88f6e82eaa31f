package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/documents"
	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/renders"
	"resume-pipeline/internal/services/health"
	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/uploads"
)

// RouterDeps carries the handlers and policies the router mounts.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	Gate            *quota.Gate
	RenderProfile   quota.Profile
	DefaultProfile  quota.Profile
	DocumentHandler *documents.Handler
	RenderHandler   *renders.Handler
	UploadHandler   *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, health.Status{OK: true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.RenderHandler != nil {
		deps.RenderHandler.RegisterRoutes(api, middleware.Quota(deps.Gate, deps.RenderProfile))
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.RegisterRoutes(api, middleware.Quota(deps.Gate, deps.DefaultProfile))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
