package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type BalanceStore struct {
	db DB
}

type Balance struct {
	UserID          string    `db:"user_id"`
	AvailableAmount int64     `db:"available_amount"`
	PendingAmount   int64     `db:"pending_amount"`
	LastUpdated     time.Time `db:"last_updated"`
}

func NewBalanceStore(db DB) *BalanceStore {
	return &BalanceStore{db: db}
}

// Get returns the balance row for userID, creating a zeroed row if none
// exists. It never reports not-found.
func (s *BalanceStore) Get(ctx context.Context, userID string) (Balance, error) {
	row, err := s.get(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO balances (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
		`, userID); err != nil {
			return Balance{}, err
		}
		return s.get(ctx, s.db, userID)
	}
	return row, err
}

func (s *BalanceStore) GetTx(ctx context.Context, tx Getter, userID string) (Balance, error) {
	return s.get(ctx, tx, userID)
}

func (s *BalanceStore) get(ctx context.Context, g Getter, userID string) (Balance, error) {
	var row Balance
	err := g.GetContext(ctx, &row, `
		SELECT user_id, available_amount, pending_amount, last_updated
		FROM balances
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Balance{}, err
	}
	return row, nil
}

func (s *BalanceStore) CreditAvailable(ctx context.Context, tx Execer, userID string, amountMinor int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO balances (user_id, available_amount)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET available_amount = balances.available_amount + EXCLUDED.available_amount,
		    last_updated = NOW()
	`, userID, amountMinor)
	return err
}

// DebitAvailable decrements available_amount only when the row still covers
// the debit. The returned row count is the success signal: zero means the
// funds were insufficient and nothing changed.
func (s *BalanceStore) DebitAvailable(ctx context.Context, tx Execer, userID string, amountMinor int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET available_amount = available_amount - $1, last_updated = NOW()
		WHERE user_id = $2 AND available_amount >= $1
	`, amountMinor, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BalanceStore) CreditPending(ctx context.Context, tx Execer, userID string, amountMinor int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO balances (user_id, pending_amount)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET pending_amount = balances.pending_amount + EXCLUDED.pending_amount,
		    last_updated = NOW()
	`, userID, amountMinor)
	return err
}

// DebitPending mirrors DebitAvailable for the escrowed portion.
func (s *BalanceStore) DebitPending(ctx context.Context, tx Execer, userID string, amountMinor int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE balances
		SET pending_amount = pending_amount - $1, last_updated = NOW()
		WHERE user_id = $2 AND pending_amount >= $1
	`, amountMinor, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
