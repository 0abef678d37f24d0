package store

import (
	"context"
	"time"
)

type UserStore struct {
	db DB
}

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	UserType     string    `db:"user_type"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, email, userType, passwordHash string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, username, email, user_type, password_hash)
		VALUES ($1, $2, $3, $4, $5)
	`, id, username, email, userType, passwordHash)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, user_type, password_hash, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

// GetByIDAndType enforces a role check in the query itself; a wrong role looks
// the same as a missing user (sql.ErrNoRows).
func (s *UserStore) GetByIDAndType(ctx context.Context, userID, userType string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, user_type, password_hash, created_at
		FROM users
		WHERE id = $1 AND user_type = $2
	`, userID, userType)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, email, user_type, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)
	if err != nil {
		return User{}, err
	}
	return row, nil
}
