package store

import (
	"context"
	"time"
)

type ConnectsStore struct {
	db DB
}

type Connects struct {
	UserID      string    `db:"user_id"`
	Balance     int64     `db:"balance"`
	LastUpdated time.Time `db:"last_updated"`
}

func NewConnectsStore(db DB) *ConnectsStore {
	return &ConnectsStore{db: db}
}

// Get returns sql.ErrNoRows when the user has no connects record.
func (s *ConnectsStore) Get(ctx context.Context, userID string) (Connects, error) {
	var row Connects
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, balance, last_updated
		FROM connects
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Connects{}, err
	}
	return row, nil
}

func (s *ConnectsStore) GetTx(ctx context.Context, tx Getter, userID string) (Connects, error) {
	var row Connects
	err := tx.GetContext(ctx, &row, `
		SELECT user_id, balance, last_updated
		FROM connects
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Connects{}, err
	}
	return row, nil
}

// Credit adds connects, creating the record when absent.
func (s *ConnectsStore) Credit(ctx context.Context, tx Execer, userID string, amount int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO connects (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = connects.balance + EXCLUDED.balance,
		    last_updated = NOW()
	`, userID, amount)
	return err
}

// Debit spends connects only when the balance covers the debit; zero rows
// affected means insufficient connects.
func (s *ConnectsStore) Debit(ctx context.Context, tx Execer, userID string, amount int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE connects
		SET balance = balance - $1, last_updated = NOW()
		WHERE user_id = $2 AND balance >= $1
	`, amount, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
