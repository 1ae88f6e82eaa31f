package health

import (
	"context"
	"database/sql"
	"time"
)

// Status is the health payload.
type Status struct {
	OK         bool              `json:"ok"`
	Components map[string]string `json:"components"`
}

// Service reports which pipeline dependencies are configured and reachable.
type Service struct {
	DB          *sql.DB
	LLMProvider string
	QuotaStore  string
	ObjectStore string
}

// NewService constructs a health service.
func NewService(db *sql.DB, llmProvider, quotaStore, objectStore string) *Service {
	return &Service{DB: db, LLMProvider: llmProvider, QuotaStore: quotaStore, ObjectStore: objectStore}
}

// Status pings the database when one is configured. A missing LLM provider is
// reported but does not fail the check since rendering still works without it.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true, Components: map[string]string{
		"quota_store":  s.QuotaStore,
		"object_store": s.ObjectStore,
		"llm":          "unconfigured",
		"database":     "disabled",
	}}
	if s.LLMProvider != "" {
		out.Components["llm"] = s.LLMProvider
	}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			out.OK = false
			out.Components["database"] = "unreachable"
		} else {
			out.Components["database"] = "ok"
		}
	}
	return out
}
