package store

import (
	"context"
	"time"
)

type ProposalStore struct {
	db DB
}

type Proposal struct {
	ID           string    `db:"id"`
	JobID        string    `db:"job_id"`
	FreelancerID string    `db:"freelancer_id"`
	Content      string    `db:"proposal_content"`
	Timeline     string    `db:"timeline"`
	Bid          int64     `db:"bid"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

type ProposalInput struct {
	ID           string
	JobID        string
	FreelancerID string
	Content      string
	Timeline     string
	Bid          int64
	Status       string
}

func NewProposalStore(db DB) *ProposalStore {
	return &ProposalStore{db: db}
}

func (s *ProposalStore) Create(ctx context.Context, tx Execer, input ProposalInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO proposals (id, job_id, freelancer_id, proposal_content, timeline, bid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, input.ID, input.JobID, input.FreelancerID, input.Content, input.Timeline, input.Bid, input.Status)
	return err
}

func (s *ProposalStore) Exists(ctx context.Context, jobID, freelancerID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM proposals WHERE job_id = $1 AND freelancer_id = $2)
	`, jobID, freelancerID)
	return exists, err
}

func (s *ProposalStore) GetByID(ctx context.Context, tx Getter, proposalID string) (Proposal, error) {
	var row Proposal
	err := tx.GetContext(ctx, &row, `
		SELECT id, job_id, freelancer_id, proposal_content, timeline, bid, status, created_at
		FROM proposals
		WHERE id = $1
	`, proposalID)
	if err != nil {
		return Proposal{}, err
	}
	return row, nil
}

func (s *ProposalStore) ListByJob(ctx context.Context, jobID string) ([]Proposal, error) {
	var rows []Proposal
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, job_id, freelancer_id, proposal_content, timeline, bid, status, created_at
		FROM proposals
		WHERE job_id = $1
		ORDER BY created_at DESC
	`, jobID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
