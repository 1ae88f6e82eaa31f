package quota

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStore keeps windows in the rate_windows table so every API instance shares them.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

// The conditional upsert is the atomic check-and-increment: when the window is live and
// full, the WHERE clause suppresses the update and no row comes back.
const admitSQL = `
INSERT INTO rate_windows (window_key, request_count, reset_at)
VALUES ($1, 1, $3)
ON CONFLICT (window_key) DO UPDATE SET
	request_count = CASE WHEN rate_windows.reset_at < $2 THEN 1 ELSE rate_windows.request_count + 1 END,
	reset_at = CASE WHEN rate_windows.reset_at < $2 THEN EXCLUDED.reset_at ELSE rate_windows.reset_at END
WHERE rate_windows.reset_at < $2 OR rate_windows.request_count < $4
RETURNING request_count, reset_at`

const deniedSQL = `SELECT reset_at FROM rate_windows WHERE window_key = $1`

const sweepSQL = `DELETE FROM rate_windows WHERE reset_at < $1`

func (s *PGStore) Admit(ctx context.Context, key string, now time.Time, p Profile) (Decision, error) {
	now = now.UTC()
	resetAt := now.Add(p.Window)

	// A denied key can be swept between the upsert and the lookup; the second pass
	// then inserts a fresh window.
	for attempt := 0; attempt < 2; attempt++ {
		var (
			count   int
			current time.Time
		)
		err := s.DB.QueryRowContext(ctx, admitSQL, key, now, resetAt, p.MaxRequests).Scan(&count, &current)
		if err == nil {
			return Decision{
				Allowed:   true,
				Limit:     p.MaxRequests,
				Remaining: p.MaxRequests - count,
				ResetAt:   current,
			}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return Decision{}, err
		}

		err = s.DB.QueryRowContext(ctx, deniedSQL, key).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return Decision{}, err
		}
		return Decision{
			Allowed:   false,
			Limit:     p.MaxRequests,
			Remaining: 0,
			ResetAt:   current,
		}, nil
	}
	return Decision{}, errors.New("rate window vanished during admission")
}

func (s *PGStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	res, err := s.DB.ExecContext(ctx, sweepSQL, now.UTC())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
