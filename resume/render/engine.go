package render

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/shared/telemetry"
	"resume-pipeline/resume/model"
)

// Format is the output file format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ParseFormat defaults to PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", apperr.Validationf("Unsupported output format %q. Choose pdf or docx.", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatDOCX {
		return ContentTypeDOCX
	}
	return ContentTypePDF
}

// DocumentKind selects between a resume and a cover letter.
type DocumentKind string

const (
	DocumentResume DocumentKind = "resume"
	DocumentLetter DocumentKind = "letter"
)

// Request is one render job.
type Request struct {
	Template string                `json:"template"`
	Format   string                `json:"format"`
	Document string                `json:"document"`
	Style    Style                 `json:"style"`
	Resume   *model.Resume         `json:"resume"`
	Letter   *model.Letter         `json:"letter"`
	Sections []model.CustomSection `json:"sections"`
	Photo    *Image                `json:"photo"`
}

func (r Request) kind() (DocumentKind, error) {
	switch DocumentKind(strings.ToLower(strings.TrimSpace(r.Document))) {
	case "":
		if r.Resume == nil && r.Letter != nil {
			return DocumentLetter, nil
		}
		return DocumentResume, nil
	case DocumentResume:
		return DocumentResume, nil
	case DocumentLetter:
		return DocumentLetter, nil
	default:
		return "", apperr.Validationf("Unsupported document type %q. Choose resume or letter.", r.Document)
	}
}

// Result is a rendered document.
type Result struct {
	Bytes       []byte
	ContentType string
	FileName    string
	Template    TemplateID
	Fallback    bool
	Format      Format
	Document    DocumentKind
	Pages       int
	Outline     []Block
}

// Engine renders requests. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	now func() time.Time
}

// NewEngine builds an engine. now stamps document metadata; nil uses time.Now.
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Render produces the document described by req.
func (e *Engine) Render(req Request) (res Result, err error) {
	start := time.Now()
	format, err := ParseFormat(req.Format)
	if err != nil {
		return Result{}, err
	}
	kind, err := req.kind()
	if err != nil {
		return Result{}, err
	}
	strategy, fallback := Resolve(req.Template, req.Style)
	if fallback {
		telemetry.Warn("render.template.fallback", map[string]any{
			"requested": req.Template,
			"override":  req.Style.Template,
			"template":  strategy.ID(),
		})
	}
	ph, err := decodePhoto(req.Photo)
	if err != nil {
		return Result{}, err
	}
	theme := req.Style.apply(strategy.Theme())

	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = apperr.Render(fmt.Sprintf("template %s failed", strategy.ID()), fmt.Errorf("%v", r))
		}
		if err != nil {
			telemetry.Error("render.failed", map[string]any{
				"template": strategy.ID(),
				"format":   format,
				"document": kind,
				"err":      err,
			})
		}
	}()

	res = Result{
		ContentType: format.ContentType(),
		Template:    strategy.ID(),
		Fallback:    fallback,
		Format:      format,
		Document:    kind,
	}

	var name string
	switch kind {
	case DocumentLetter:
		if req.Letter == nil {
			return Result{}, apperr.Render("no letter data to render", nil)
		}
		lb, err := bindLetter(*req.Letter)
		if err != nil {
			return Result{}, err
		}
		name = lb.Name
		if format == FormatDOCX {
			res.Bytes, err = writeLetterDOCX(lb, theme)
		} else {
			c := newCanvas(theme, "Cover letter - "+lb.Name, lb.Name, e.now())
			strategy.Letter(c, lb)
			res.Bytes, res.Pages, err = c.finish()
			res.Outline = c.outline
		}
		if err != nil {
			return Result{}, apperr.Render(fmt.Sprintf("template %s could not write the letter", strategy.ID()), err)
		}
	default:
		if req.Resume == nil {
			return Result{}, apperr.Render("no resume data to render", nil)
		}
		b, err := bindResume(*req.Resume, req.Sections, req.Style.Sections, ph)
		if err != nil {
			return Result{}, err
		}
		name = b.Name
		if format == FormatDOCX {
			res.Bytes, err = writeResumeDOCX(b, theme)
		} else {
			c := newCanvas(theme, "Resume - "+b.Name, b.Name, e.now())
			strategy.Resume(c, b)
			res.Bytes, res.Pages, err = c.finish()
			res.Outline = c.outline
		}
		if err != nil {
			return Result{}, apperr.Render(fmt.Sprintf("template %s could not write the resume", strategy.ID()), err)
		}
	}

	res.FileName = fileName(name, kind, format)
	telemetry.Info("render.complete", map[string]any{
		"template":    strategy.ID(),
		"format":      format,
		"document":    kind,
		"pages":       res.Pages,
		"bytes":       len(res.Bytes),
		"fallback":    fallback,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return res, nil
}

// fileName builds "ada-lovelace-resume.pdf" style names.
func fileName(name string, kind DocumentKind, format Format) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "document"
	}
	return fmt.Sprintf("%s-%s.%s", slug, kind, format)
}
