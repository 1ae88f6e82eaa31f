package quota

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreAdmitAllowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	resetAt := now.Add(time.Minute)
	profile := Profile{Name: "extract", Window: time.Minute, MaxRequests: 5}

	mock.ExpectQuery("INSERT INTO rate_windows").
		WithArgs("client|extract", now, resetAt, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"request_count", "reset_at"}).AddRow(int64(2), resetAt))

	store := NewPGStore(db)
	d, err := store.Admit(context.Background(), "client|extract", now, profile)
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !d.Allowed || d.Remaining != 3 || !d.ResetAt.Equal(resetAt) {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreAdmitDeniedReadsResetAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.January, 1, 12, 0, 30, 0, time.UTC)
	windowReset := time.Date(2026, time.January, 1, 12, 1, 0, 0, time.UTC)
	profile := Profile{Name: "extract", Window: time.Minute, MaxRequests: 5}

	mock.ExpectQuery("INSERT INTO rate_windows").
		WithArgs("client|extract", now, now.Add(time.Minute), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"request_count", "reset_at"}))
	mock.ExpectQuery("SELECT reset_at FROM rate_windows").
		WithArgs("client|extract").
		WillReturnRows(sqlmock.NewRows([]string{"reset_at"}).AddRow(windowReset))

	store := NewPGStore(db)
	d, err := store.Admit(context.Background(), "client|extract", now, profile)
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected denial")
	}
	if !d.ResetAt.Equal(windowReset) || d.Limit != 5 {
		t.Fatalf("unexpected decision: %+v", d)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreSweepDeletesExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("DELETE FROM rate_windows").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	removed, err := NewPGStore(db).Sweep(context.Background(), now)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 3 {
		t.Fatalf("removed = %d, want 3", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
