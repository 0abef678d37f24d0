package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestConnectsGetMissingRow(t *testing.T) {
	db := stubDB{
		getFn: func(context.Context, any, string, ...any) error {
			return sql.ErrNoRows
		},
	}
	store := NewConnectsStore(db)
	if _, err := store.Get(context.Background(), "user-1"); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestConnectsCreditUpserts(t *testing.T) {
	var captured string
	tx := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			captured = query
			return stubResult{rows: 1}, nil
		},
	}
	store := NewConnectsStore(stubDB{})
	if err := store.Credit(context.Background(), tx, "user-1", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(captured, "ON CONFLICT (user_id) DO UPDATE") {
		t.Fatalf("credit must upsert: %s", captured)
	}
}

func TestConnectsDebitConditional(t *testing.T) {
	var captured string
	var capturedArgs []any
	tx := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			captured = query
			capturedArgs = args
			return stubResult{rows: 1}, nil
		},
	}
	store := NewConnectsStore(stubDB{})
	rows, err := store.Debit(context.Background(), tx, "user-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}
	if !strings.Contains(captured, "balance >= $1") {
		t.Fatalf("debit must guard sufficiency in the update itself: %s", captured)
	}
	if capturedArgs[0].(int64) != 1 || capturedArgs[1].(string) != "user-1" {
		t.Fatalf("unexpected args: %v", capturedArgs)
	}
}

func TestConnectsDebitInsufficient(t *testing.T) {
	tx := stubExecer{
		execFn: func(context.Context, string, ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewConnectsStore(stubDB{})
	rows, err := store.Debit(context.Background(), tx, "user-1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows, got %d", rows)
	}
}
