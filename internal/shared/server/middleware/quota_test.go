package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-pipeline/internal/quota"
	"resume-pipeline/internal/shared/server/respond"
)

func newQuotaRouter(gate *quota.Gate, profile quota.Profile) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.POST("/limited", Quota(gate, profile), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestQuotaDeniesPastLimit(t *testing.T) {
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	gate := quota.NewGate(quota.NewMemoryStore(), func() time.Time { return now })
	router := newQuotaRouter(gate, quota.Profile{Name: "extract", Window: time.Minute, MaxRequests: 2})

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/limited", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
		if got := resp.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Fatalf("limit header = %q", got)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/limited", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if got := resp.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q, want 60", got)
	}
	if got := resp.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining = %q", got)
	}

	var body respond.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "rate_limited" {
		t.Fatalf("code = %q", body.Error.Code)
	}
}

func TestQuotaUnlimitedProfilePassesThrough(t *testing.T) {
	gate := quota.NewGate(quota.NewMemoryStore(), nil)
	router := newQuotaRouter(gate, quota.Profile{Name: "open"})

	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/limited", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
		if resp.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatalf("unlimited profile should not set headers")
		}
	}
}
