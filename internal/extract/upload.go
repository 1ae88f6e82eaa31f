package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"resume-pipeline/internal/apperr"
)

// DefaultMaxUploadBytes is the documented ingestion ceiling.
const DefaultMaxUploadBytes int64 = 10 << 20

const (
	MimeText = "text/plain"
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeZip  = "application/zip"
)

// Format is the closed set of document kinds the extractor can decode.
type Format int

const (
	FormatText Format = iota + 1
	FormatPDF
	FormatDOCX
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatPDF:
		return "pdf"
	case FormatDOCX:
		return "docx"
	default:
		return "unknown"
	}
}

// MimeType returns the canonical MIME type of the format.
func (f Format) MimeType() string {
	switch f {
	case FormatText:
		return MimeText
	case FormatPDF:
		return MimePDF
	case FormatDOCX:
		return MimeDOCX
	default:
		return ""
	}
}

// Upload is an accepted document: raw bytes plus the format they were declared as.
// It is immutable once built.
type Upload struct {
	data     []byte
	mimeType string
	format   Format
}

// NewUpload validates the declared type and size before any parsing. maxBytes <= 0 uses
// DefaultMaxUploadBytes.
func NewUpload(data []byte, mimeType string, maxBytes int64) (Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if len(data) == 0 {
		return Upload{}, apperr.Validation("The uploaded file is empty.")
	}
	if int64(len(data)) > maxBytes {
		return Upload{}, apperr.Validationf("The file is too large. The maximum size is %s.", humanBytes(maxBytes))
	}

	mt := normalizeMimeType(mimeType, data)
	format, ok := formatFor(mt)
	if !ok {
		if mt == "" {
			return Upload{}, apperr.Validation("A file type is required. Upload a PDF, Word (.docx) or plain text file.")
		}
		return Upload{}, apperr.Validationf("Unsupported file type %q. Upload a PDF, Word (.docx) or plain text file.", mt)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return Upload{data: buf, mimeType: mt, format: format}, nil
}

func (u Upload) Format() Format   { return u.format }
func (u Upload) MimeType() string { return u.mimeType }
func (u Upload) Size() int        { return len(u.data) }

// FormatOf reports the format a declared MIME type maps to, ignoring parameters.
// A bare zip is not accepted here since its content is unknown.
func FormatOf(mimeType string) (Format, bool) {
	return formatFor(normalizeMimeType(mimeType, nil))
}

func formatFor(mimeType string) (Format, bool) {
	switch mimeType {
	case MimeText:
		return FormatText, true
	case MimePDF:
		return FormatPDF, true
	case MimeDOCX:
		return FormatDOCX, true
	default:
		return 0, false
	}
}

// normalizeMimeType drops parameters and maps zip uploads that carry a Word document to DOCX.
func normalizeMimeType(mimeType string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if clean != mimeZip {
		return clean
	}
	if isWordZip(data) {
		return MimeDOCX
	}
	return clean
}

func isWordZip(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}

func humanBytes(n int64) string {
	const mib = 1 << 20
	if n%mib == 0 {
		return fmt.Sprintf("%d MB", n/mib)
	}
	if n >= 1<<10 {
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}
