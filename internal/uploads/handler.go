// Package uploads hands out presigned URLs so large documents can go straight to
// the object store and be ingested afterwards by key.
package uploads

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/storage/object"
	"resume-pipeline/internal/shared/telemetry"
)

const (
	presignExpires = 15 * time.Minute
	inboxPrefix    = "inbox"
)

// Presigner issues direct-upload URLs for keys in the object store.
type Presigner interface {
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Handler serves presign requests.
type Handler struct {
	Presigner Presigner
	MaxBytes  int64
	now       func() time.Time
}

// NewHandler constructs a Handler. maxBytes <= 0 uses the extractor ceiling.
func NewHandler(p Presigner, maxBytes int64, now func() time.Time) *Handler {
	if maxBytes <= 0 {
		maxBytes = extract.DefaultMaxUploadBytes
	}
	if now == nil {
		now = time.Now
	}
	return &Handler{Presigner: p, MaxBytes: maxBytes, now: now}
}

type presignRequest struct {
	FileName  string `json:"fileName"`
	MimeType  string `json:"mimeType"`
	SizeBytes int64  `json:"sizeBytes"`
}

// PresignResponse tells the client where to PUT the file and which key to ingest.
type PresignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	Key              string `json:"key"`
	MimeType         string `json:"mimeType"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// RegisterRoutes attaches the presign route. guard runs before the handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guard ...gin.HandlerFunc) {
	rg.POST("/uploads/presign", append(guard, h.presign)...)
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.FromError(c, apperr.Validation("The request body is not valid JSON."), h.now())
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.MimeType = strings.TrimSpace(req.MimeType)

	if req.FileName == "" {
		respond.FromError(c, apperr.Validation("fileName is required."), h.now())
		return
	}
	format, ok := extract.FormatOf(req.MimeType)
	if !ok {
		respond.FromError(c, apperr.Validationf("Unsupported file type %q. Upload a PDF, Word (.docx) or plain text file.", req.MimeType), h.now())
		return
	}
	if req.SizeBytes <= 0 || req.SizeBytes > h.MaxBytes {
		respond.FromError(c, apperr.Validationf("sizeBytes must be between 1 and %d.", h.MaxBytes), h.now())
		return
	}
	sanitized, err := object.SanitizeFileName(req.FileName)
	if err != nil {
		respond.FromError(c, apperr.Validation("fileName is invalid."), h.now())
		return
	}

	owner := object.HashKey([]byte(c.ClientIP()))[:16]
	key := path.Join(inboxPrefix, owner, uuid.NewString()+"-"+sanitized)

	url, err := h.Presigner.PresignPut(c.Request.Context(), key, presignExpires)
	if err != nil {
		telemetry.Error("uploads.presign.failed", map[string]any{
			"err":        err,
			"key":        key,
			"mime_type":  req.MimeType,
			"size_bytes": req.SizeBytes,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, apperr.CodeInternal, "failed to generate upload url", nil)
		return
	}

	respond.OK(c, PresignResponse{
		UploadURL:        url,
		Key:              key,
		MimeType:         format.MimeType(),
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}
