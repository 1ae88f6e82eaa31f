package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"resume-pipeline/internal/apperr"
)

var resumeLines = []string{
	"Jane Doe",
	"Senior Backend Engineer",
	"jane.doe@example.com  +1 555 0100",
	"Built payment services handling two million requests per day.",
}

func mustUpload(t *testing.T, data []byte, mimeType string) Upload {
	t.Helper()
	u, err := NewUpload(data, mimeType, 0)
	if err != nil {
		t.Fatalf("NewUpload: %v", err)
	}
	return u
}

func TestExtractPlainText(t *testing.T) {
	u := mustUpload(t, []byte(strings.Join(resumeLines, "\r\n")), "text/plain; charset=utf-8")
	got, err := New(0).Extract(context.Background(), u)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Format != FormatText {
		t.Fatalf("format = %v, want text", got.Format)
	}
	if got.Len() <= DefaultMinChars {
		t.Fatalf("expected more than %d chars, got %d", DefaultMinChars, got.Len())
	}
	if strings.Contains(got.Content, "\r") {
		t.Fatalf("expected CRLF to be normalized: %q", got.Content)
	}
}

func TestExtractWhitespaceOnlyTextFails(t *testing.T) {
	data := bytes.Repeat([]byte(" \n\t  "), 40)
	if len(data) != 200 {
		t.Fatalf("fixture should be 200 bytes, got %d", len(data))
	}
	_, err := New(0).Extract(context.Background(), mustUpload(t, data, MimeText))
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if !strings.Contains(err.Error(), "document appears empty") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestExtractCancelledContextIsExtractionError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	u := mustUpload(t, []byte(strings.Join(resumeLines, "\n")), MimeText)
	_, err := New(0).Extract(ctx, u)
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cause should stay reachable: %v", err)
	}
}

func TestExtractShortTextFails(t *testing.T) {
	_, err := New(0).Extract(context.Background(), mustUpload(t, []byte("Jane Doe, engineer"), MimeText))
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error for short text, got %v", err)
	}
}

func TestExtractMinCharsIsConfigurable(t *testing.T) {
	u := mustUpload(t, []byte("Jane Doe, engineer"), MimeText)
	got, err := New(5).Extract(context.Background(), u)
	if err != nil {
		t.Fatalf("Extract with low threshold: %v", err)
	}
	if got.Content != "Jane Doe, engineer" {
		t.Fatalf("unexpected content %q", got.Content)
	}
}

func TestExtractPlainTextRecoversLegacyEncodings(t *testing.T) {
	body := "Experience in Zürich and São Paulo, résumé available on request for René."

	t.Run("windows-1252", func(t *testing.T) {
		latin := []byte(strings.NewReplacer("ü", "\xfc", "ã", "\xe3", "é", "\xe9").Replace(body))
		got, err := New(0).Extract(context.Background(), mustUpload(t, latin, MimeText))
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Content != body {
			t.Fatalf("got %q, want %q", got.Content, body)
		}
	})

	t.Run("utf-16le with bom", func(t *testing.T) {
		data := []byte{0xFF, 0xFE}
		for _, r := range body {
			data = append(data, byte(r), byte(r>>8))
		}
		got, err := New(0).Extract(context.Background(), mustUpload(t, data, MimeText))
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Content != body {
			t.Fatalf("got %q, want %q", got.Content, body)
		}
	})

	t.Run("utf-8 with bom", func(t *testing.T) {
		data := append([]byte{0xEF, 0xBB, 0xBF}, body...)
		got, err := New(0).Extract(context.Background(), mustUpload(t, data, MimeText))
		if err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got.Content != body {
			t.Fatalf("got %q, want %q", got.Content, body)
		}
	})
}

func TestExtractTwoPagePDF(t *testing.T) {
	data := buildPDF(t, [][]string{
		resumeLines,
		{"Education", "BSc Computer Science, University of Lisbon, 2016"},
	})
	got, err := New(0).Extract(context.Background(), mustUpload(t, data, MimePDF))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Pages != 2 {
		t.Fatalf("pages = %d, want 2", got.Pages)
	}
	if got.Len() <= 50 {
		t.Fatalf("expected more than 50 chars, got %d", got.Len())
	}
	for _, want := range []string{"Jane Doe", "Senior Backend Engineer", "University of Lisbon"} {
		if !strings.Contains(got.Content, want) {
			t.Fatalf("missing %q in %q", want, got.Content)
		}
	}
	if !strings.Contains(got.Content, "\n\n") {
		t.Fatalf("expected pages separated by a blank line: %q", got.Content)
	}
}

func TestExtractPDFWithMalformedEscapeDegrades(t *testing.T) {
	data := buildPDF(t, [][]string{{
		"Grew revenue 100% YoY across three regions",
		"Caf%C3%A9 ordering platform rebuilt in Go",
		"Led a team of eight engineers and two designers",
	}})
	got, err := New(0).Extract(context.Background(), mustUpload(t, data, MimePDF))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if strings.Contains(got.Content, "%") {
		t.Fatalf("escape marker should not survive: %q", got.Content)
	}
	if !strings.Contains(got.Content, "Grew revenue 100 YoY") {
		t.Fatalf("malformed run should be kept with the marker blanked: %q", got.Content)
	}
	if !strings.Contains(got.Content, "Café ordering platform") {
		t.Fatalf("well-formed escape should decode: %q", got.Content)
	}
}

func TestExtractImageOnlyPDFFails(t *testing.T) {
	_, err := New(0).Extract(context.Background(), mustUpload(t, buildImagePDF(t), MimePDF))
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if !strings.Contains(err.Error(), "document appears empty or unparsable") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestExtractCorruptPDFFails(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >>\nthis is not a real pdf\n%%EOF")
	_, err := New(0).Extract(context.Background(), mustUpload(t, data, MimePDF))
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, []string{
		"Jane Doe",
		"Platform Engineer at Acme & Co",
		"Migrated forty services to Kubernetes with zero downtime.",
	})
	got, err := New(0).Extract(context.Background(), mustUpload(t, data, MimeDOCX))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Format != FormatDOCX {
		t.Fatalf("format = %v, want docx", got.Format)
	}
	lines := strings.Split(got.Content, "\n")
	if len(lines) != 3 || lines[1] != "Platform Engineer at Acme & Co" {
		t.Fatalf("expected one line per paragraph, got %q", got.Content)
	}
}

func TestExtractDOCXParseFailure(t *testing.T) {
	_, err := New(0).Extract(context.Background(), mustUpload(t, []byte("definitely not a zip archive"), MimeDOCX))
	if !apperr.Is(err, apperr.KindExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestNewUploadValidation(t *testing.T) {
	docx := buildDOCX(t, resumeLines)

	var notes bytes.Buffer
	zw := zip.NewWriter(&notes)
	w, _ := zw.Create("notes.txt")
	_, _ = w.Write([]byte("hello"))
	_ = zw.Close()

	cases := []struct {
		name     string
		data     []byte
		mime     string
		max      int64
		wantErr  bool
		wantFmt  Format
		contains string
	}{
		{name: "text with params", data: []byte("hello"), mime: "Text/Plain; charset=UTF-8", wantFmt: FormatText},
		{name: "pdf", data: []byte("%PDF"), mime: "application/pdf", wantFmt: FormatPDF},
		{name: "zip carrying docx", data: docx, mime: "application/zip", wantFmt: FormatDOCX},
		{name: "plain zip", data: notes.Bytes(), mime: "application/zip", wantErr: true, contains: "application/zip"},
		{name: "image", data: []byte{0x89, 'P', 'N', 'G'}, mime: "image/png", wantErr: true, contains: "image/png"},
		{name: "missing type", data: []byte("hello"), mime: "", wantErr: true, contains: "file type is required"},
		{name: "empty", data: nil, mime: MimeText, wantErr: true, contains: "empty"},
		{name: "too large", data: make([]byte, 2048), mime: MimeText, max: 1024, wantErr: true, contains: "too large"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewUpload(tc.data, tc.mime, tc.max)
			if tc.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.contains) {
					t.Fatalf("error %q should mention %q", err, tc.contains)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUpload: %v", err)
			}
			if u.Format() != tc.wantFmt {
				t.Fatalf("format = %v, want %v", u.Format(), tc.wantFmt)
			}
		})
	}
}

func TestNewUploadCopiesInput(t *testing.T) {
	data := []byte(strings.Join(resumeLines, "\n"))
	u := mustUpload(t, data, MimeText)
	data[0] = 'X'
	got, err := New(0).Extract(context.Background(), u)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.HasPrefix(got.Content, "Jane") {
		t.Fatalf("upload should not alias caller bytes: %q", got.Content)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "  Jane   Doe \t\r\n\r\n\r\n\r\nEngineer  \n"
	if got := normalizeWhitespace(in); got != "Jane Doe\n\nEngineer" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		mimeType string
		want     Format
		ok       bool
	}{
		{mimeType: "application/pdf", want: FormatPDF, ok: true},
		{mimeType: "TEXT/PLAIN; charset=utf-8", want: FormatText, ok: true},
		{mimeType: MimeDOCX, want: FormatDOCX, ok: true},
		{mimeType: "application/zip", ok: false},
		{mimeType: "image/png", ok: false},
		{mimeType: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := FormatOf(tt.mimeType)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("FormatOf(%q) = %v, %v; want %v, %v", tt.mimeType, got, ok, tt.want, tt.ok)
		}
	}
}
