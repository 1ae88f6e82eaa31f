package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/internal/shared/telemetry"
)

func serveError(t *testing.T, err error, now time.Time) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		FromError(c, err, now)
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var body ErrorResponse
	if decodeErr := json.Unmarshal(resp.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode: %v", decodeErr)
	}
	return resp, body
}

func TestFromErrorMapsKinds(t *testing.T) {
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apperr.Validation("Unsupported file type."), http.StatusBadRequest, apperr.CodeValidation, "Unsupported file type."},
		{"extraction", apperr.Extraction("Could not read enough text from the document.", nil), http.StatusUnprocessableEntity, apperr.CodeExtraction, "Could not read enough text from the document."},
		{"upstream hides cause", apperr.Upstream("openai: 503", errors.New("boom")), http.StatusBadGateway, apperr.CodeUpstream, "The extraction service is temporarily unavailable. Please try again later."},
		{"render", apperr.Render("fpdf failed", nil), http.StatusInternalServerError, apperr.CodeRender, "The document could not be rendered."},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, apperr.CodeInternal, "Unexpected server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := serveError(t, tt.err, now)
			if resp.Code != tt.status {
				t.Fatalf("status = %d, want %d", resp.Code, tt.status)
			}
			if body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Fatalf("unexpected body: %+v", body.Error)
			}
			if resp.Header().Get("Retry-After") != "" {
				t.Fatalf("unexpected Retry-After header")
			}
		})
	}
}

func TestFromErrorRateLimitSetsRetryAfter(t *testing.T) {
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	err := apperr.RateLimited(5, now.Add(42*time.Second+300*time.Millisecond))

	resp, body := serveError(t, err, now)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "43" {
		t.Fatalf("Retry-After = %q, want 43", got)
	}
	if body.Error.Message != "Too many requests. Please retry in 43 seconds." {
		t.Fatalf("message = %q", body.Error.Message)
	}
	details, ok := body.Error.Details.(map[string]any)
	if !ok {
		t.Fatalf("details missing: %#v", body.Error.Details)
	}
	if details["transient"] != true || details["kind"] != "rate_limit" || details["retryAfterSeconds"] != float64(43) {
		t.Fatalf("unexpected details: %#v", details)
	}
}
