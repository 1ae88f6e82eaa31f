// Package renders exposes the rendering engine over HTTP.
package renders

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/resume/render"
)

// room for a base64 photo plus the document data
const maxRequestBytes = 8 << 20

// Renderer produces documents from render requests.
type Renderer interface {
	Render(req render.Request) (render.Result, error)
}

// Handler wires HTTP handlers to the render engine.
type Handler struct {
	Engine Renderer
	now    func() time.Time
}

// NewHandler constructs a Handler. A nil clock uses time.Now.
func NewHandler(engine Renderer, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{Engine: engine, now: now}
}

// TemplatesResponse lists what a render request may ask for.
type TemplatesResponse struct {
	Templates []render.TemplateInfo `json:"templates"`
	Default   render.TemplateID     `json:"default"`
	Formats   []render.Format       `json:"formats"`
	Sections  []render.SectionSpec  `json:"sections"`
}

// RegisterRoutes attaches render routes. guard runs before the render handler only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	rg.GET("/templates", h.templates)
	rg.POST("/renders", append(guard, h.render)...)
}

func (h *Handler) templates(c *gin.Context) {
	respond.OK(c, TemplatesResponse{
		Templates: render.Templates(),
		Default:   render.DefaultTemplate,
		Formats:   []render.Format{render.FormatPDF, render.FormatDOCX},
		Sections:  render.SectionSpecs(),
	})
}

func (h *Handler) render(c *gin.Context) {
	c.Set(middleware.StageKey, "render")
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)

	var req render.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.FromError(c, apperr.Validation("The render request is too large."), h.now())
			return
		}
		respond.FromError(c, apperr.Validation("The render request is not valid JSON."), h.now())
		return
	}

	start := time.Now()
	res, err := h.Engine.Render(req)
	metrics.ObserveRenderDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		kind := "internal"
		if k, ok := apperr.KindOf(err); ok {
			kind = string(k)
		}
		metrics.IncRenderFailed(kind)
		respond.FromError(c, err, h.now())
		return
	}
	metrics.IncRender(string(res.Template), string(res.Format))
	c.Set(middleware.TemplateKey, string(res.Template))
	c.Set(middleware.DocumentFormatKey, string(res.Format))

	header := c.Writer.Header()
	header.Set("X-Render-Template", string(res.Template))
	if res.Fallback {
		header.Set("X-Render-Fallback", "true")
	}
	if res.Pages > 0 {
		header.Set("X-Render-Pages", strconv.Itoa(res.Pages))
	}
	respond.Attachment(c, res.FileName, res.ContentType, res.Bytes)
}
