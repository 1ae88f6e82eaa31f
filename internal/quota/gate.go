// Package quota bounds request volume per client identity over a rolling window.
package quota

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-pipeline/internal/apperr"
)

// Profile is one admission policy. Different call sites use different profiles.
type Profile struct {
	Name        string
	Window      time.Duration
	MaxRequests int
}

// Unlimited reports whether the profile disables admission control.
func (p Profile) Unlimited() bool {
	return p.Window <= 0 || p.MaxRequests <= 0
}

// Decision is the result of one admission check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter is the whole-second wait until the window resets.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	return apperr.RetryAfter(d.ResetAt, now)
}

// Err converts a denial into a RateLimitError. It returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperr.RateLimited(d.Limit, d.ResetAt)
}

// Store keeps the per-key windows. Admit must check-and-increment atomically.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time, p Profile) (Decision, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Gate applies profiles to identities on top of a Store.
type Gate struct {
	store Store
	now   func() time.Time
}

// NewGate builds a gate. A nil clock uses time.Now.
func NewGate(store Store, now func() time.Time) *Gate {
	if store == nil {
		store = NewMemoryStore()
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, now: now}
}

// Admit checks and counts one request from identity against the profile.
func (g *Gate) Admit(ctx context.Context, identity string, p Profile) (Decision, error) {
	now := g.now()
	if p.Unlimited() {
		return Decision{Allowed: true, ResetAt: now}, nil
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		identity = "anonymous"
	}
	decision, err := g.store.Admit(ctx, windowKey(identity, p), now, p)
	if err != nil {
		return Decision{}, fmt.Errorf("quota admit profile=%s: %w", p.Name, err)
	}
	return decision, nil
}

// Sweep removes windows whose reset time is before now.
func (g *Gate) Sweep(ctx context.Context, now time.Time) (int, error) {
	return g.store.Sweep(ctx, now)
}

// Now exposes the gate clock so callers compute retry hints consistently.
func (g *Gate) Now() time.Time {
	return g.now()
}

func windowKey(identity string, p Profile) string {
	name := p.Name
	if name == "" {
		name = "default"
	}
	return identity + "|" + name
}
