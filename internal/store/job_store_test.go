package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestCloseIfOpenGuardsStatus(t *testing.T) {
	var captured string
	tx := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			captured = query
			return stubResult{rows: 1}, nil
		},
	}
	store := NewJobStore(stubDB{})
	rows, err := store.CloseIfOpen(context.Background(), tx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
	if !strings.Contains(captured, "status != 'closed'") {
		t.Fatalf("close must be guarded by status: %s", captured)
	}
}

func TestCloseIfOpenAlreadyClosed(t *testing.T) {
	tx := stubExecer{
		execFn: func(context.Context, string, ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewJobStore(stubDB{})
	rows, err := store.CloseIfOpen(context.Background(), tx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows for a closed job, got %d", rows)
	}
}

func TestListBuildsFilters(t *testing.T) {
	var captured string
	var capturedArgs []any
	db := stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			captured = query
			capturedArgs = args
			return nil
		},
	}
	store := NewJobStore(db)
	minBudget := int64(10000)
	maxBudget := int64(50000)
	if _, err := store.List(context.Background(), JobFilter{
		Status:    "approved",
		MinBudget: &minBudget,
		MaxBudget: &maxBudget,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(captured, "status = $1") ||
		!strings.Contains(captured, "budget >= $2") ||
		!strings.Contains(captured, "budget <= $3") {
		t.Fatalf("unexpected filter clause: %s", captured)
	}
	if len(capturedArgs) != 3 {
		t.Fatalf("expected 3 args, got %v", capturedArgs)
	}
	if !strings.Contains(captured, "ORDER BY created_at DESC") {
		t.Fatalf("expected newest-first ordering: %s", captured)
	}
}

func TestListNoFilters(t *testing.T) {
	var capturedArgs []any
	db := stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			capturedArgs = args
			return nil
		},
	}
	store := NewJobStore(db)
	if _, err := store.List(context.Background(), JobFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(capturedArgs) != 0 {
		t.Fatalf("expected no args, got %v", capturedArgs)
	}
}
