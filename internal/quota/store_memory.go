package quota

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

// memoryShards splits the window map so a sweep only ever holds one shard's lock.
const memoryShards = 32

type rateWindow struct {
	count   int
	resetAt time.Time
}

type memoryShard struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
}

// MemoryStore keeps windows in process memory.
type MemoryStore struct {
	shards [memoryShards]memoryShard
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i].windows = make(map[string]*rateWindow)
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &s.shards[h.Sum32()%memoryShards]
}

func (s *MemoryStore) Admit(ctx context.Context, key string, now time.Time, p Profile) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, ok := sh.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &rateWindow{count: 1, resetAt: now.Add(p.Window)}
		sh.windows[key] = w
		return Decision{
			Allowed:   true,
			Limit:     p.MaxRequests,
			Remaining: p.MaxRequests - 1,
			ResetAt:   w.resetAt,
		}, nil
	}
	if w.count < p.MaxRequests {
		w.count++
		return Decision{
			Allowed:   true,
			Limit:     p.MaxRequests,
			Remaining: p.MaxRequests - w.count,
			ResetAt:   w.resetAt,
		}, nil
	}
	return Decision{
		Allowed:   false,
		Limit:     p.MaxRequests,
		Remaining: 0,
		ResetAt:   w.resetAt,
	}, nil
}

// Sweep visits one shard at a time, releasing each lock before moving on.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for i := range s.shards {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		removed += s.shards[i].sweep(now)
	}
	return removed, nil
}

func (sh *memoryShard) sweep(now time.Time) int {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	removed := 0
	for key, w := range sh.windows {
		if now.After(w.resetAt) {
			delete(sh.windows, key)
			removed++
		}
	}
	return removed
}

// Len reports how many windows are tracked.
func (s *MemoryStore) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		n += len(sh.windows)
		sh.mu.Unlock()
	}
	return n
}
