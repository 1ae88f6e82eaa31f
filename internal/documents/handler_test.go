package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/documents"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/internal/shared/storage/object/local"
	"resume-pipeline/resume/model"
)

const sampleText = `Grace Hopper
Rear Admiral, computer scientist. Led the team that built the first compiler
and championed machine-independent programming languages.`

type stubStructurer struct{}

func (stubStructurer) Extract(_ context.Context, text extract.Text) (model.Resume, error) {
	first, last, _ := strings.Cut(strings.SplitN(text.Content, "\n", 2)[0], " ")
	return model.Resume{FirstName: first, LastName: last, Language: "en"}, nil
}

func newRouter(t *testing.T, extractMax int) (*gin.Engine, *documents.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, time.May, 4, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	gate := quota.NewGate(quota.NewMemoryStore(), clock)
	svc := documents.NewService(gate, documents.Profiles{
		Extract: quota.Profile{Name: "extract", Window: time.Minute, MaxRequests: extractMax},
		Default: quota.Profile{Name: "default", Window: time.Minute, MaxRequests: 100},
	}, extract.New(0), stubStructurer{}, clock)

	r := gin.New()
	documents.NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc
}

func multipartRequest(t *testing.T, path, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) respond.ErrorBody {
	t.Helper()
	var body respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, resp.Body.String())
	}
	return body.Error
}

func TestExtractEndpointReturnsResume(t *testing.T) {
	router, _ := newRouter(t, 5)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "/api/v1/documents/extract", "cv.txt", "text/plain", []byte(sampleText)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got documents.ExtractResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Resume.FirstName != "Grace" || got.Resume.LastName != "Hopper" || got.Format != "text" {
		t.Fatalf("unexpected response: %+v", got)
	}
	if resp.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("remaining header = %q", resp.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestExtractEndpointInfersTypeFromExtension(t *testing.T) {
	router, _ := newRouter(t, 5)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, multipartRequest(t, "/api/v1/documents/text", "cv.txt", "application/octet-stream", []byte(sampleText)))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got documents.TextResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.Text, "Grace Hopper") || got.Chars <= extract.DefaultMinChars {
		t.Fatalf("unexpected text response: %+v", got)
	}
}

func TestExtractEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		data        []byte
		status      int
		code        string
	}{
		{name: "unsupported type", fileName: "photo.png", contentType: "image/png", data: []byte("png"), status: http.StatusBadRequest, code: "validation_error"},
		{name: "whitespace only", fileName: "blank.txt", contentType: "text/plain", data: []byte(strings.Repeat(" ", 200)), status: http.StatusUnprocessableEntity, code: "extraction_failed"},
		{name: "too short", fileName: "short.txt", contentType: "text/plain", data: []byte("Grace Hopper"), status: http.StatusUnprocessableEntity, code: "extraction_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t, 5)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, multipartRequest(t, "/api/v1/documents/extract", tt.fileName, tt.contentType, tt.data))
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Fatalf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestExtractEndpointMissingFile(t *testing.T) {
	router, _ := newRouter(t, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestExtractEndpointRateLimited(t *testing.T) {
	router, _ := newRouter(t, 1)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, multipartRequest(t, "/api/v1/documents/extract", "cv.txt", "text/plain", []byte(sampleText)))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, multipartRequest(t, "/api/v1/documents/extract", "cv.txt", "text/plain", []byte(sampleText)))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", second.Header().Get("Retry-After"))
	}
	if second.Header().Get("X-RateLimit-Limit") != "1" || second.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("missing rate-limit headers: %v", second.Header())
	}
	body := decodeError(t, second)
	if body.Code != "rate_limited" || !strings.Contains(body.Message, "60 seconds") {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestFromStorageEndpoint(t *testing.T) {
	router, svc := newRouter(t, 5)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cv.txt"), []byte(sampleText), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	svc.Source = local.New(dir)

	ok := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract/from-storage", strings.NewReader(`{"key":"cv.txt","mimeType":"text/plain"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(ok, req)
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ok.Code, ok.Body.String())
	}

	missing := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract/from-storage", strings.NewReader(`{"key":"cv.txt"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(missing, req)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing mimeType, got %d", missing.Code)
	}
}
