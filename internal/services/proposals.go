package services

import (
	"context"

	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SubmitProposalRequest struct {
	JobID        string
	FreelancerID string
	Content      string
	Timeline     string
	BidMinor     int64
}

// SubmitProposal spends one connect and inserts the proposal in the same
// atomic scope: if the insert fails the debit is rolled back, never silently
// lost.
func (s *LedgerService) SubmitProposal(ctx context.Context, req SubmitProposalRequest) (proposal store.Proposal, err error) {
	defer func() { observe("submit_proposal", err) }()
	job, err := s.jobs.GetByID(ctx, req.JobID)
	if err != nil {
		if isNoRows(err) {
			err = ErrJobNotFound
		}
		return
	}
	if job.Status != JobStatusApproved {
		err = ErrJobNotApproved
		return
	}
	if _, err = s.users.GetByIDAndType(ctx, req.FreelancerID, UserTypeFreelancer); err != nil {
		if isNoRows(err) {
			err = ErrFreelancerNotFound
		}
		return
	}
	exists, err := s.proposals.Exists(ctx, req.JobID, req.FreelancerID)
	if err != nil {
		return
	}
	if exists {
		err = ErrDuplicateProposal
		return
	}
	proposalID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.connects.Debit(ctx, tx, req.FreelancerID, proposalConnectsCost)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrInsufficientConnects
		}
		if err := s.proposals.Create(ctx, tx, store.ProposalInput{
			ID:           proposalID,
			JobID:        req.JobID,
			FreelancerID: req.FreelancerID,
			Content:      req.Content,
			Timeline:     req.Timeline,
			Bid:          req.BidMinor,
			Status:       "submitted",
		}); err != nil {
			return err
		}
		proposal, err = s.proposals.GetByID(ctx, tx, proposalID)
		return err
	})
	if err != nil {
		return store.Proposal{}, err
	}
	return proposal, nil
}

func (s *LedgerService) ListProposals(ctx context.Context, jobID string) ([]store.Proposal, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if isNoRows(err) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return s.proposals.ListByJob(ctx, jobID)
}
