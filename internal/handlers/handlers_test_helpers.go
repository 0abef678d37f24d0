package handlers

import (
	"context"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/services"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Execer, id, username, email, userType, passwordHash string) error
	getByEmailFn func(ctx context.Context, email string) (store.User, error)
	getByIDFn    func(ctx context.Context, userID string) (store.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, email, userType, passwordHash string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, email, userType, passwordHash)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (store.User, error) {
	if s.getByEmailFn == nil {
		return store.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (store.User, error) {
	if s.getByIDFn == nil {
		return store.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

type stubService struct {
	getBalanceFn          func(ctx context.Context, userID string) (store.Balance, error)
	addFundsFn            func(ctx context.Context, userID string, amountMinor int64) (store.Balance, error)
	withdrawFundsFn       func(ctx context.Context, userID string, amountMinor int64) (store.Balance, error)
	getConnectsFn         func(ctx context.Context, userID string) (store.Connects, error)
	purchaseConnectsFn    func(ctx context.Context, userID string, amount, priceMinor int64) (store.Transaction, store.Connects, store.Balance, error)
	grantSignupConnectsFn func(ctx context.Context, tx store.Execer, userID string) error
	listTransactionsFn    func(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
	createJobFn           func(ctx context.Context, req services.CreateJobRequest) (store.Job, store.Balance, error)
	approveJobFn          func(ctx context.Context, jobID string) (store.Job, error)
	rejectJobFn           func(ctx context.Context, jobID string) (store.Job, error)
	getJobFn              func(ctx context.Context, jobID string) (store.Job, error)
	listJobsFn            func(ctx context.Context, filter store.JobFilter) ([]store.Job, error)
	inviteFreelancerFn    func(ctx context.Context, jobID, freelancerID string) (store.Invitation, error)
	revenueShareFn        func(ctx context.Context, jobID, freelancerID string, amountMinor int64) (store.Transaction, store.Balance, store.Balance, error)
	submitProposalFn      func(ctx context.Context, req services.SubmitProposalRequest) (store.Proposal, error)
	listProposalsFn       func(ctx context.Context, jobID string) ([]store.Proposal, error)
}

func (s stubService) GetBalance(ctx context.Context, userID string) (store.Balance, error) {
	if s.getBalanceFn == nil {
		return store.Balance{UserID: userID}, nil
	}
	return s.getBalanceFn(ctx, userID)
}

func (s stubService) AddFunds(ctx context.Context, userID string, amountMinor int64) (store.Balance, error) {
	if s.addFundsFn == nil {
		return store.Balance{UserID: userID, AvailableAmount: amountMinor}, nil
	}
	return s.addFundsFn(ctx, userID, amountMinor)
}

func (s stubService) WithdrawFunds(ctx context.Context, userID string, amountMinor int64) (store.Balance, error) {
	if s.withdrawFundsFn == nil {
		return store.Balance{UserID: userID}, nil
	}
	return s.withdrawFundsFn(ctx, userID, amountMinor)
}

func (s stubService) GetConnects(ctx context.Context, userID string) (store.Connects, error) {
	if s.getConnectsFn == nil {
		return store.Connects{UserID: userID}, nil
	}
	return s.getConnectsFn(ctx, userID)
}

func (s stubService) PurchaseConnects(ctx context.Context, userID string, amount, priceMinor int64) (store.Transaction, store.Connects, store.Balance, error) {
	if s.purchaseConnectsFn == nil {
		return store.Transaction{}, store.Connects{UserID: userID}, store.Balance{UserID: userID}, nil
	}
	return s.purchaseConnectsFn(ctx, userID, amount, priceMinor)
}

func (s stubService) GrantSignupConnects(ctx context.Context, tx store.Execer, userID string) error {
	if s.grantSignupConnectsFn == nil {
		return nil
	}
	return s.grantSignupConnectsFn(ctx, tx, userID)
}

func (s stubService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	if s.listTransactionsFn == nil {
		return nil, nil
	}
	return s.listTransactionsFn(ctx, userID, limit, offset)
}

func (s stubService) CreateJob(ctx context.Context, req services.CreateJobRequest) (store.Job, store.Balance, error) {
	if s.createJobFn == nil {
		return store.Job{}, store.Balance{}, nil
	}
	return s.createJobFn(ctx, req)
}

func (s stubService) ApproveJob(ctx context.Context, jobID string) (store.Job, error) {
	if s.approveJobFn == nil {
		return store.Job{ID: jobID}, nil
	}
	return s.approveJobFn(ctx, jobID)
}

func (s stubService) RejectJob(ctx context.Context, jobID string) (store.Job, error) {
	if s.rejectJobFn == nil {
		return store.Job{ID: jobID}, nil
	}
	return s.rejectJobFn(ctx, jobID)
}

func (s stubService) GetJob(ctx context.Context, jobID string) (store.Job, error) {
	if s.getJobFn == nil {
		return store.Job{ID: jobID}, nil
	}
	return s.getJobFn(ctx, jobID)
}

func (s stubService) ListJobs(ctx context.Context, filter store.JobFilter) ([]store.Job, error) {
	if s.listJobsFn == nil {
		return nil, nil
	}
	return s.listJobsFn(ctx, filter)
}

func (s stubService) InviteFreelancer(ctx context.Context, jobID, freelancerID string) (store.Invitation, error) {
	if s.inviteFreelancerFn == nil {
		return store.Invitation{JobID: jobID, FreelancerID: freelancerID}, nil
	}
	return s.inviteFreelancerFn(ctx, jobID, freelancerID)
}

func (s stubService) ProcessRevenueShare(ctx context.Context, jobID, freelancerID string, amountMinor int64) (store.Transaction, store.Balance, store.Balance, error) {
	if s.revenueShareFn == nil {
		return store.Transaction{}, store.Balance{}, store.Balance{}, nil
	}
	return s.revenueShareFn(ctx, jobID, freelancerID, amountMinor)
}

func (s stubService) SubmitProposal(ctx context.Context, req services.SubmitProposalRequest) (store.Proposal, error) {
	if s.submitProposalFn == nil {
		return store.Proposal{JobID: req.JobID, FreelancerID: req.FreelancerID}, nil
	}
	return s.submitProposalFn(ctx, req)
}

func (s stubService) ListProposals(ctx context.Context, jobID string) ([]store.Proposal, error) {
	if s.listProposalsFn == nil {
		return nil, nil
	}
	return s.listProposalsFn(ctx, jobID)
}

func newTestHandler(txRunner fakeTxRunner, users stubUserStore, service stubService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	return New(txRunner, cfg, users, service, websocket.NewHub())
}
