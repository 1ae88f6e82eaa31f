package renders_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/renders"
	"resume-pipeline/internal/shared/server/middleware"
	"resume-pipeline/internal/shared/server/respond"
	"resume-pipeline/resume/render"
)

var fixedNow = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

const resumeBody = `{
  "template": %q,
  "format": %q,
  "resume": {
    "firstName": "Ada",
    "lastName": "Lovelace",
    "email": "ada@example.com",
    "experience": [
      {"role": "Analyst", "organization": "Analytical Engine Co", "period": "1842 - 1843", "description": "Wrote the first published algorithm."}
    ],
    "skills": "Mathematics, Translation",
    "objective": "Make machines compose music."
  },
  "sections": [
    {"kind": "projects", "enabled": true, "items": [{"name": "Note G", "description": "Bernoulli numbers"}]}
  ]
}`

func newRouter(guard ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := renders.NewHandler(render.NewEngine(func() time.Time { return fixedNow }), func() time.Time { return fixedNow })
	h.RegisterRoutes(r.Group("/api/v1"), guard...)
	return r
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/renders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func resumeRequest(template, format string) string {
	return fmt.Sprintf(resumeBody, template, format)
}

func TestRenderPDF(t *testing.T) {
	resp := postJSON(newRouter(), resumeRequest("modern", "pdf"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("body is not a PDF")
	}
	if got := resp.Header().Get("Content-Type"); got != render.ContentTypePDF {
		t.Fatalf("content type = %q", got)
	}
	if got := resp.Header().Get("X-Render-Template"); got != "modern" {
		t.Fatalf("template header = %q", got)
	}
	if resp.Header().Get("X-Render-Pages") == "" {
		t.Fatalf("expected page count header")
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="ada-lovelace-resume.pdf"` {
		t.Fatalf("content disposition = %q", got)
	}
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	resp := postJSON(newRouter(), resumeRequest("nonexistent", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Body.Len() == 0 {
		t.Fatalf("expected document bytes")
	}
	if got := resp.Header().Get("X-Render-Template"); got != string(render.DefaultTemplate) {
		t.Fatalf("template header = %q", got)
	}
	if resp.Header().Get("X-Render-Fallback") != "true" {
		t.Fatalf("expected fallback header")
	}
}

func TestRenderDOCX(t *testing.T) {
	resp := postJSON(newRouter(), resumeRequest("classic", "docx"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != render.ContentTypeDOCX {
		t.Fatalf("content type = %q", got)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("PK")) {
		t.Fatalf("body is not a zip package")
	}
	if resp.Header().Get("X-Render-Pages") != "" {
		t.Fatalf("docx output has no page count")
	}
}

func TestRenderLetter(t *testing.T) {
	body := `{"template":"executive","letter":{"sender":{"name":"Ada Lovelace"},"paragraphs":["I would like to apply."]}}`
	resp := postJSON(newRouter(), body)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Header().Get("Content-Disposition"), "ada-lovelace-letter.pdf") {
		t.Fatalf("content disposition = %q", resp.Header().Get("Content-Disposition"))
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{name: "no data", body: `{"template":"classic"}`, status: http.StatusInternalServerError, code: "render_failed"},
		{name: "bad json", body: `{"template":`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "bad format", body: `{"format":"odt","resume":{"firstName":"Ada"}}`, status: http.StatusBadRequest, code: "validation_error"},
		{name: "bad photo", body: `{"template":"modern","resume":{"firstName":"Ada"},"photo":{"data":"bm90IGFuIGltYWdl","mimeType":"image/png"}}`, status: http.StatusBadRequest, code: "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(newRouter(), tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			var body respond.ErrorResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.code {
				t.Fatalf("code = %q, want %q", body.Error.Code, tt.code)
			}
		})
	}
}

func TestRenderGuardedByQuota(t *testing.T) {
	gate := quota.NewGate(quota.NewMemoryStore(), func() time.Time { return fixedNow })
	router := newRouter(middleware.Quota(gate, quota.Profile{Name: "render", Window: time.Minute, MaxRequests: 1}))

	if resp := postJSON(router, resumeRequest("classic", "pdf")); resp.Code != http.StatusOK {
		t.Fatalf("first render: %d", resp.Code)
	}
	resp := postJSON(router, resumeRequest("classic", "pdf"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}

	list := httptest.NewRecorder()
	router.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))
	if list.Code != http.StatusOK {
		t.Fatalf("templates listing should not be gated, got %d", list.Code)
	}
}

func TestTemplatesListing(t *testing.T) {
	resp := httptest.NewRecorder()
	newRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got renders.TemplatesResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Templates) != 4 || got.Default != render.TemplateClassic {
		t.Fatalf("unexpected listing: %+v", got)
	}
	if len(got.Sections) == 0 || got.Sections[0].Key != "objective" {
		t.Fatalf("unexpected sections: %+v", got.Sections)
	}
}
