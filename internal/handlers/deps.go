package handlers

import (
	"context"

	"marketplace/internal/services"
	"marketplace/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, email, userType, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (store.User, error)
	GetByID(ctx context.Context, userID string) (store.User, error)
}

type LedgerService interface {
	GetBalance(ctx context.Context, userID string) (store.Balance, error)
	AddFunds(ctx context.Context, userID string, amountMinor int64) (store.Balance, error)
	WithdrawFunds(ctx context.Context, userID string, amountMinor int64) (store.Balance, error)
	GetConnects(ctx context.Context, userID string) (store.Connects, error)
	PurchaseConnects(ctx context.Context, userID string, amount, priceMinor int64) (store.Transaction, store.Connects, store.Balance, error)
	GrantSignupConnects(ctx context.Context, tx store.Execer, userID string) error
	ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	CreateJob(ctx context.Context, req services.CreateJobRequest) (store.Job, store.Balance, error)
	ApproveJob(ctx context.Context, jobID string) (store.Job, error)
	RejectJob(ctx context.Context, jobID string) (store.Job, error)
	GetJob(ctx context.Context, jobID string) (store.Job, error)
	ListJobs(ctx context.Context, filter store.JobFilter) ([]store.Job, error)
	InviteFreelancer(ctx context.Context, jobID, freelancerID string) (store.Invitation, error)
	ProcessRevenueShare(ctx context.Context, jobID, freelancerID string, amountMinor int64) (store.Transaction, store.Balance, store.Balance, error)
	SubmitProposal(ctx context.Context, req services.SubmitProposalRequest) (store.Proposal, error)
	ListProposals(ctx context.Context, jobID string) ([]store.Proposal, error)
}
