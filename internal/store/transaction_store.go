package store

import (
	"context"
	"time"
)

type TransactionStore struct {
	db DB
}

type Transaction struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	JobID           *string   `db:"job_id"`
	TransactionType string    `db:"transaction_type"`
	Amount          int64     `db:"amount"`
	Details         string    `db:"details"`
	TransactionDate time.Time `db:"transaction_date"`
}

type TransactionInput struct {
	ID              string
	UserID          string
	JobID           *string
	TransactionType string
	Amount          int64
	Details         string
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Create appends one immutable log entry; transaction_date is stamped by the
// database. Rows are never updated or deleted.
func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, job_id, transaction_type, amount, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, input.ID, input.UserID, input.JobID, input.TransactionType, input.Amount, input.Details)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, tx Getter, transactionID string) (Transaction, error) {
	var row Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, job_id, transaction_type, amount, details, transaction_date
		FROM transactions
		WHERE id = $1
	`, transactionID)
	if err != nil {
		return Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, job_id, transaction_type, amount, details, transaction_date
		FROM transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
