package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	st := NewService(nil, "", "memory", "local").Status(context.Background())
	if !st.OK {
		t.Fatalf("expected ok without a database")
	}
	if st.Components["database"] != "disabled" || st.Components["llm"] != "unconfigured" {
		t.Fatalf("unexpected components: %+v", st.Components)
	}
}

func TestStatusReportsUnreachableDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	st := NewService(db, "openai", "postgres", "s3").Status(context.Background())
	if st.OK || st.Components["database"] != "unreachable" {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Components["llm"] != "openai" {
		t.Fatalf("llm component = %q", st.Components["llm"])
	}
}
