// Package documents runs the ingestion pipeline: quota gate, text extraction,
// then structured extraction.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/shared/metrics"
	"resume-pipeline/internal/shared/storage/object"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/resume/model"
)

// Stage names reported in logs and responses.
const (
	StageQuota      = "quota"
	StageExtract    = "extract"
	StageStructured = "structured"
)

// TextExtractor decodes an accepted upload.
type TextExtractor interface {
	Extract(ctx context.Context, u extract.Upload) (extract.Text, error)
}

// Structurer turns extracted text into a resume record.
type Structurer interface {
	Extract(ctx context.Context, text extract.Text) (model.Resume, error)
}

// Profiles are the quota profiles for the two ingestion entry points.
type Profiles struct {
	Extract quota.Profile
	Default quota.Profile
}

// Input is one document handed to the pipeline.
type Input struct {
	Identity string
	FileName string
	MimeType string
	Data     []byte
}

// Outcome is what a pipeline run produced. Quota is set whenever the gate ran,
// including on denial, so callers can surface rate-limit headers.
type Outcome struct {
	ID         string
	Stage      string
	Quota      quota.Decision
	Text       extract.Text
	Resume     *model.Resume
	ArchiveKey string
}

// Service wires the pipeline stages together. Source and Archive are optional.
type Service struct {
	Gate           *quota.Gate
	Profiles       Profiles
	Extractor      TextExtractor
	Structured     Structurer
	Source         object.Store
	Archive        object.Store
	MaxUploadBytes int64

	now func() time.Time
}

// NewService constructs a Service. A nil clock uses time.Now.
func NewService(gate *quota.Gate, profiles Profiles, extractor TextExtractor, structured Structurer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		Gate:       gate,
		Profiles:   profiles,
		Extractor:  extractor,
		Structured: structured,
		now:        now,
	}
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Ingest runs the full pipeline under the extract profile.
func (s *Service) Ingest(ctx context.Context, in Input) (Outcome, error) {
	out, err := s.extractText(ctx, in, s.Profiles.Extract)
	if err != nil {
		return out, err
	}

	out.Stage = StageStructured
	var resume model.Resume
	if s.Structured == nil {
		err = apperr.Upstream("structured extraction is not configured", errors.New("nil structurer"))
	} else {
		resume, err = s.Structured.Extract(ctx, out.Text)
	}
	if err != nil {
		s.fail(out, err)
		return out, err
	}
	metrics.IncStructured()
	out.Resume = &resume

	telemetry.Info("documents.ingest.complete", map[string]any{
		"ingest_id":  out.ID,
		"format":     out.Text.Format.String(),
		"chars":      out.Text.Len(),
		"experience": len(resume.Experience),
	})
	return out, nil
}

// ExtractText runs only the gate and the extractor, under the default profile.
func (s *Service) ExtractText(ctx context.Context, in Input) (Outcome, error) {
	return s.extractText(ctx, in, s.Profiles.Default)
}

// IngestFromStore reads key from the source store and runs the full pipeline.
func (s *Service) IngestFromStore(ctx context.Context, identity, key, mimeType string) (Outcome, error) {
	if s.Source == nil {
		return Outcome{}, apperr.Validation("Reading documents from storage is not enabled.")
	}
	clean, err := object.CleanKey(key)
	if err != nil {
		return Outcome{}, apperr.Validation("The storage key is invalid.")
	}

	limit := s.maxUploadBytes()
	rc, err := s.Source.Open(ctx, clean)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrNotFound):
			return Outcome{}, apperr.Validationf("No document exists at %q.", clean)
		case errors.Is(err, object.ErrInvalidKey):
			return Outcome{}, apperr.Validation("The storage key is invalid.")
		}
		return Outcome{}, fmt.Errorf("open %s: %w", clean, err)
	}
	defer rc.Close()

	// One byte past the limit lets NewUpload report the size error.
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return Outcome{}, fmt.Errorf("read %s: %w", clean, err)
	}
	return s.Ingest(ctx, Input{Identity: identity, FileName: clean, MimeType: mimeType, Data: data})
}

func (s *Service) extractText(ctx context.Context, in Input, profile quota.Profile) (Outcome, error) {
	out := Outcome{ID: uuid.NewString(), Stage: StageQuota}

	if s.Gate != nil {
		decision, err := s.Gate.Admit(ctx, in.Identity, profile)
		if err != nil {
			return out, err
		}
		out.Quota = decision
		if !decision.Allowed {
			metrics.IncQuotaDenied(profile.Name)
			err := decision.Err()
			s.fail(out, err)
			return out, err
		}
	}

	out.Stage = StageExtract
	upload, err := extract.NewUpload(in.Data, in.MimeType, s.maxUploadBytes())
	if err != nil {
		s.fail(out, err)
		return out, err
	}
	if s.Archive != nil {
		out.ArchiveKey = s.archive(ctx, in, upload)
	}

	start := s.Now()
	text, err := s.Extractor.Extract(ctx, upload)
	metrics.ObserveExtractDurationMs(float64(s.Now().Sub(start).Microseconds()) / 1000.0)
	if err != nil {
		s.fail(out, err)
		return out, err
	}
	metrics.IncDocumentExtracted(text.Format.String())
	out.Text = text

	telemetry.Info("extract.complete", map[string]any{
		"ingest_id": out.ID,
		"format":    text.Format.String(),
		"pages":     text.Pages,
		"chars":     text.Len(),
	})
	return out, nil
}

// archive stores the raw upload. Failures are logged and never fail the run.
func (s *Service) archive(ctx context.Context, in Input, u extract.Upload) string {
	key := object.ArchiveKey(in.Identity, in.FileName, in.Data)
	if _, err := s.Archive.Put(ctx, key, u.MimeType(), bytes.NewReader(in.Data)); err != nil {
		telemetry.Warn("documents.archive.failed", map[string]any{"key": key, "err": err})
		return ""
	}
	return key
}

func (s *Service) fail(out Outcome, err error) {
	kind := "internal"
	if k, ok := apperr.KindOf(err); ok {
		kind = string(k)
	}
	metrics.IncDocumentFailed(kind)
	telemetry.Warn("documents.ingest.failed", map[string]any{
		"ingest_id": out.ID,
		"stage":     out.Stage,
		"kind":      kind,
		"err":       err,
	})
}

func (s *Service) maxUploadBytes() int64 {
	if s.MaxUploadBytes <= 0 {
		return extract.DefaultMaxUploadBytes
	}
	return s.MaxUploadBytes
}
