package services

import (
	"context"
	"encoding/json"

	"marketplace/internal/money"
	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateJobRequest struct {
	ClientID        string
	Title           string
	Description     string
	SkillsRequired  string
	BudgetMinor     int64
	CategoryID      *string
	Location        string
	ExperienceLevel string
	JobType         string
}

type jobPostingFeeDetails struct {
	JobID         string `json:"jobId"`
	Budget        int64  `json:"budget"`
	FeePercentage int64  `json:"feePercentage"`
}

// CreateJob charges the non-refundable posting fee, escrows the budget into
// the client's pending amount, inserts the job and appends the fee record,
// all in one atomic scope.
func (s *LedgerService) CreateJob(ctx context.Context, req CreateJobRequest) (job store.Job, balance store.Balance, err error) {
	defer func() { observe("create_job", err) }()
	if req.BudgetMinor <= 0 {
		err = ErrInvalidAmount
		return
	}
	if _, err = s.users.GetByIDAndType(ctx, req.ClientID, UserTypeClient); err != nil {
		if isNoRows(err) {
			err = ErrClientNotFound
		}
		return
	}
	postingFee := money.PercentOf(req.BudgetMinor, jobPostingFeePercent)
	jobID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if postingFee > 0 {
			rows, err := s.balances.DebitAvailable(ctx, tx, req.ClientID, postingFee)
			if err != nil {
				return err
			}
			if rows == 0 {
				return s.insufficientAvailable(ctx, tx, req.ClientID, postingFee)
			}
		}
		if err := s.balances.CreditPending(ctx, tx, req.ClientID, req.BudgetMinor); err != nil {
			return err
		}
		if err := s.jobs.Create(ctx, tx, store.JobInput{
			ID:              jobID,
			ClientID:        req.ClientID,
			Title:           req.Title,
			Description:     req.Description,
			SkillsRequired:  req.SkillsRequired,
			Budget:          req.BudgetMinor,
			Status:          JobStatusPending,
			CategoryID:      req.CategoryID,
			Location:        req.Location,
			ExperienceLevel: req.ExperienceLevel,
			JobType:         req.JobType,
		}); err != nil {
			return err
		}
		// Budgets under 10 cents round the fee to zero; the log only holds
		// positive amounts, so no job_posting_fee row is written then.
		if postingFee == 0 {
			return nil
		}
		details, _ := json.Marshal(jobPostingFeeDetails{
			JobID:         jobID,
			Budget:        req.BudgetMinor,
			FeePercentage: jobPostingFeePercent,
		})
		return s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          req.ClientID,
			JobID:           &jobID,
			TransactionType: TypeJobPostingFee,
			Amount:          postingFee,
			Details:         string(details),
		})
	})
	if err != nil {
		return store.Job{}, store.Balance{}, err
	}
	job, err = s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return store.Job{}, store.Balance{}, err
	}
	balance, err = s.balances.Get(ctx, req.ClientID)
	if err != nil {
		return store.Job{}, store.Balance{}, err
	}
	s.broadcast(balance)
	return job, balance, nil
}

func (s *LedgerService) ApproveJob(ctx context.Context, jobID string) (store.Job, error) {
	return s.setJobStatus(ctx, jobID, JobStatusApproved)
}

// RejectJob flips the status only; the posting fee stays consumed.
func (s *LedgerService) RejectJob(ctx context.Context, jobID string) (store.Job, error) {
	return s.setJobStatus(ctx, jobID, JobStatusRejected)
}

func (s *LedgerService) setJobStatus(ctx context.Context, jobID, status string) (store.Job, error) {
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.jobs.UpdateStatus(ctx, tx, jobID, status)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrJobNotFound
		}
		return nil
	})
	if err != nil {
		return store.Job{}, err
	}
	return s.jobs.GetByID(ctx, jobID)
}

func (s *LedgerService) GetJob(ctx context.Context, jobID string) (store.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if isNoRows(err) {
			return store.Job{}, ErrJobNotFound
		}
		return store.Job{}, err
	}
	return job, nil
}

func (s *LedgerService) ListJobs(ctx context.Context, filter store.JobFilter) ([]store.Job, error) {
	return s.jobs.List(ctx, filter)
}

// InviteFreelancer records a client's invitation; duplicates are rejected.
func (s *LedgerService) InviteFreelancer(ctx context.Context, jobID, freelancerID string) (invitation store.Invitation, err error) {
	if _, err = s.jobs.GetByID(ctx, jobID); err != nil {
		if isNoRows(err) {
			err = ErrJobNotFound
		}
		return
	}
	if _, err = s.users.GetByIDAndType(ctx, freelancerID, UserTypeFreelancer); err != nil {
		if isNoRows(err) {
			err = ErrFreelancerNotFound
		}
		return
	}
	exists, err := s.invitations.Exists(ctx, jobID, freelancerID)
	if err != nil {
		return
	}
	if exists {
		err = ErrDuplicateInvitation
		return
	}
	invitationID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.invitations.Create(ctx, tx, invitationID, jobID, freelancerID, "pending"); err != nil {
			return err
		}
		invitation, err = s.invitations.GetByID(ctx, tx, invitationID)
		return err
	})
	if err != nil {
		return store.Invitation{}, err
	}
	return invitation, nil
}
