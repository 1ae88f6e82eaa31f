package documents

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/shared/server/respond"
)

// multipart framing allowance on top of the file ceiling
const formOverhead = 64 << 10

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/extract", h.extract)
	rg.POST("/documents/text", h.text)
	rg.POST("/documents/extract/from-storage", h.fromStorage)
}

func (h *Handler) extract(c *gin.Context) {
	in, ok := h.readUpload(c)
	if !ok {
		return
	}
	out, err := h.Svc.Ingest(c.Request.Context(), in)
	h.annotate(c, out)
	if err != nil {
		respond.FromError(c, err, h.Svc.Now())
		return
	}
	respond.OK(c, toExtractResponse(out))
}

func (h *Handler) text(c *gin.Context) {
	in, ok := h.readUpload(c)
	if !ok {
		return
	}
	out, err := h.Svc.ExtractText(c.Request.Context(), in)
	h.annotate(c, out)
	if err != nil {
		respond.FromError(c, err, h.Svc.Now())
		return
	}
	respond.OK(c, toTextResponse(out))
}

func (h *Handler) fromStorage(c *gin.Context) {
	var req fromStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.FromError(c, apperr.Validation("Both key and mimeType are required."), h.Svc.Now())
		return
	}

	out, err := h.Svc.IngestFromStore(c.Request.Context(), c.ClientIP(), strings.TrimSpace(req.Key), strings.TrimSpace(req.MimeType))
	h.annotate(c, out)
	if err != nil {
		respond.FromError(c, err, h.Svc.Now())
		return
	}
	respond.OK(c, toExtractResponse(out))
}

func (h *Handler) readUpload(c *gin.Context) (Input, bool) {
	limit := h.Svc.maxUploadBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.FromError(c, apperr.Validation("The file is too large."), h.Svc.Now())
			return Input{}, false
		}
		respond.FromError(c, apperr.Validation("A file is required in the \"file\" form field."), h.Svc.Now())
		return Input{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.FromError(c, apperr.Validation("The uploaded file could not be read."), h.Svc.Now())
		return Input{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respond.FromError(c, apperr.Validation("The uploaded file could not be read."), h.Svc.Now())
		return Input{}, false
	}

	return Input{
		Identity: c.ClientIP(),
		FileName: fileHeader.Filename,
		MimeType: declaredType(fileHeader.Header.Get("Content-Type"), fileHeader.Filename),
		Data:     data,
	}, true
}

// annotate exposes quota metadata and the pipeline stage to the response and log.
func (h *Handler) annotate(c *gin.Context, out Outcome) {
	middleware.SetQuotaHeaders(c, out.Quota)
	if out.Stage != "" {
		c.Set(middleware.StageKey, out.Stage)
	}
	if out.Text.Format != 0 {
		c.Set(middleware.DocumentFormatKey, out.Text.Format.String())
	}
}

// declaredType prefers the part's Content-Type; clients that send a generic type
// get one derived from the file extension.
func declaredType(contentType, fileName string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err == nil && mt != "" && mt != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return extract.FormatPDF.MimeType()
	case ".docx":
		return extract.FormatDOCX.MimeType()
	case ".txt":
		return extract.FormatText.MimeType()
	}
	return contentType
}
