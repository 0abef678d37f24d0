package store

import (
	"context"
	"time"
)

type InvitationStore struct {
	db DB
}

type Invitation struct {
	ID           string    `db:"id"`
	JobID        string    `db:"job_id"`
	FreelancerID string    `db:"freelancer_id"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewInvitationStore(db DB) *InvitationStore {
	return &InvitationStore{db: db}
}

func (s *InvitationStore) Create(ctx context.Context, tx Execer, id, jobID, freelancerID, status string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO invitations (id, job_id, freelancer_id, status)
		VALUES ($1, $2, $3, $4)
	`, id, jobID, freelancerID, status)
	return err
}

func (s *InvitationStore) Exists(ctx context.Context, jobID, freelancerID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM invitations WHERE job_id = $1 AND freelancer_id = $2)
	`, jobID, freelancerID)
	return exists, err
}

func (s *InvitationStore) GetByID(ctx context.Context, tx Getter, invitationID string) (Invitation, error) {
	var row Invitation
	err := tx.GetContext(ctx, &row, `
		SELECT id, job_id, freelancer_id, status, created_at
		FROM invitations
		WHERE id = $1
	`, invitationID)
	if err != nil {
		return Invitation{}, err
	}
	return row, nil
}
