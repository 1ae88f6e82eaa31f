package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/bootstrap"
	"resume-pipeline/internal/llm"
	"resume-pipeline/internal/shared/config"
)

const cvText = `Katherine Johnson
Research mathematician at NASA Langley. Calculated trajectories for Mercury and Apollo.
Skills: orbital mechanics, analytic geometry`

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		ArchiveUploads:  true,
		LLMProvider:     "openai",
		ExtractMinChars: 50,
		MaxUploadBytes:  1 << 20,
		QuotaStore:      "memory",
		QuotaExtract:    config.Quota{Window: time.Minute, Max: 2},
		QuotaRender:     config.Quota{Window: time.Minute, Max: 10},
		QuotaDefault:    config.Quota{Window: time.Minute, Max: 10},
	}
}

func buildApp(t *testing.T, completer llm.Completer) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.July, 20, 9, 0, 0, 0, time.UTC)
	app, err := bootstrap.Build(context.Background(), testConfig(t), bootstrap.Options{
		Now:       func() time.Time { return now },
		Completer: completer,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func uploadRequest(t *testing.T, text string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "cv.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(text)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/extract", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestPipelineExtractThenRender(t *testing.T) {
	completer := llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
		if !strings.Contains(req.User, "Katherine Johnson") {
			t.Errorf("prompt does not carry the document text")
		}
		return "```json\n" + `{"firstName":"Katherine","lastName":"Johnson","experience":[{"role":"Research mathematician","organization":"NASA Langley","period":"1953 - 1986","description":"Calculated trajectories."}],"skills":"orbital mechanics","language":"EN"}` + "\n```", nil
	})
	app := buildApp(t, completer)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, cvText))
	if resp.Code != http.StatusOK {
		t.Fatalf("extract: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var extracted struct {
		Resume     json.RawMessage `json:"resume"`
		ArchiveKey string          `json:"archiveKey"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &extracted); err != nil {
		t.Fatalf("decode extract: %v", err)
	}
	if extracted.ArchiveKey == "" {
		t.Fatalf("expected the upload to be archived")
	}

	renderBody := `{"template":"executive","resume":` + string(extracted.Resume) + `}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/renders", strings.NewReader(renderBody))
	req.Header.Set("Content-Type", "application/json")
	rendered := httptest.NewRecorder()
	app.Router.ServeHTTP(rendered, req)
	if rendered.Code != http.StatusOK {
		t.Fatalf("render: expected 200, got %d: %s", rendered.Code, rendered.Body.String())
	}
	if !bytes.HasPrefix(rendered.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("render did not return a PDF")
	}
	if !strings.Contains(rendered.Header().Get("Content-Disposition"), "katherine-johnson-resume.pdf") {
		t.Fatalf("content disposition = %q", rendered.Header().Get("Content-Disposition"))
	}

	metrics := httptest.NewRecorder()
	app.Router.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if metrics.Code != http.StatusOK || !strings.Contains(metrics.Body.String(), "renders_total") {
		t.Fatalf("metrics missing render counter: %s", metrics.Body.String())
	}
}

func TestExtractWithoutCompleterConfigured(t *testing.T) {
	app := buildApp(t, nil)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, cvText))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestExtractQuotaFromConfig(t *testing.T) {
	completer := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return `{"firstName":"Katherine"}`, nil
	})
	app := buildApp(t, completer)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		app.Router.ServeHTTP(resp, uploadRequest(t, cvText))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: %d %s", i+1, resp.Code, resp.Body.String())
		}
	}
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, uploadRequest(t, cvText))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	app := buildApp(t, nil)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status struct {
		OK         bool              `json:"ok"`
		Components map[string]string `json:"components"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.OK || status.Components["database"] != "disabled" || status.Components["llm"] != "unconfigured" {
		t.Fatalf("unexpected health: %+v", status)
	}
}
