// Package extract turns uploaded document bytes into normalized plain text.
//
// Each supported format has its own decoder. The decoders only recover text; the
// Extractor applies the shared normalization and the minimum-length check.
package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-pipeline/internal/apperr"
)

// DefaultMinChars is the trimmed length text must exceed to count as extracted.
const DefaultMinChars = 50

const emptyDocumentMessage = "document appears empty or unparsable"

// Text is the extractor output with its provenance. Pages is zero when unknown.
type Text struct {
	Content string
	Format  Format
	Pages   int
}

// Len counts runes, not bytes.
func (t Text) Len() int {
	return utf8.RuneCountInString(t.Content)
}

// Extractor decodes uploads. The zero value uses DefaultMinChars.
type Extractor struct {
	MinChars int
}

// New returns an extractor with the given threshold; minChars <= 0 uses the default.
func New(minChars int) *Extractor {
	return &Extractor{MinChars: minChars}
}

// Extract decodes the upload with the decoder for its format. Every failure is an
// ExtractionError, including text that decodes cleanly but is too short to be useful.
func (e *Extractor) Extract(ctx context.Context, u Upload) (Text, error) {
	if err := ctx.Err(); err != nil {
		return Text{}, apperr.Extraction("Text extraction was cancelled before it started.", err)
	}

	var (
		raw   string
		pages int
		err   error
	)
	switch u.format {
	case FormatText:
		raw, err = decodePlainText(u.data)
	case FormatPDF:
		raw, pages, err = decodePDF(u.data)
	case FormatDOCX:
		raw, err = decodeDOCX(u.data)
	default:
		return Text{}, apperr.Validation("Unsupported file type. Upload a PDF, Word (.docx) or plain text file.")
	}
	if err != nil {
		return Text{}, err
	}

	content := normalizeWhitespace(raw)
	if content == "" {
		return Text{}, apperr.Extraction(emptyDocumentMessage, nil)
	}
	out := Text{Content: content, Format: u.format, Pages: pages}
	if out.Len() <= e.minChars() {
		return Text{}, apperr.Extraction(
			"document text is too short to process; upload a text-based document or enter details manually",
			nil,
		)
	}
	return out, nil
}

func (e *Extractor) minChars() int {
	if e == nil || e.MinChars <= 0 {
		return DefaultMinChars
	}
	return e.MinChars
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
