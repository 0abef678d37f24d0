package services

import (
	"context"
	"errors"

	"marketplace/internal/db"
	"marketplace/internal/metrics"
	"marketplace/internal/money"
	"marketplace/internal/store"
	"marketplace/internal/websocket"
)

// Transaction types recorded in the append-only log.
const (
	TypeDeposit         = "deposit"
	TypeWithdrawal      = "withdrawal"
	TypeConnectPurchase = "connect_purchase"
	TypeJobPostingFee   = "job_posting_fee"
	TypeRevenueShare    = "revenue_share"
	TypePlatformFee     = "platform_fee"
	TypeOther           = "other"
)

const (
	jobPostingFeePercent = 5
	platformFeePercent   = 10
	proposalConnectsCost = 1
	signupConnectsGrant  = 10
)

const (
	JobStatusPending  = "pending"
	JobStatusApproved = "approved"
	JobStatusRejected = "rejected"
	JobStatusClosed   = "closed"
)

const (
	UserTypeClient     = "client"
	UserTypeFreelancer = "freelancer"
)

type BalanceStore interface {
	Get(ctx context.Context, userID string) (store.Balance, error)
	GetTx(ctx context.Context, tx store.Getter, userID string) (store.Balance, error)
	CreditAvailable(ctx context.Context, tx store.Execer, userID string, amountMinor int64) error
	DebitAvailable(ctx context.Context, tx store.Execer, userID string, amountMinor int64) (int64, error)
	CreditPending(ctx context.Context, tx store.Execer, userID string, amountMinor int64) error
	DebitPending(ctx context.Context, tx store.Execer, userID string, amountMinor int64) (int64, error)
}

type ConnectsStore interface {
	Get(ctx context.Context, userID string) (store.Connects, error)
	Credit(ctx context.Context, tx store.Execer, userID string, amount int64) error
	Debit(ctx context.Context, tx store.Execer, userID string, amount int64) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetByID(ctx context.Context, tx store.Getter, transactionID string) (store.Transaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error)
}

type UserStore interface {
	GetByIDAndType(ctx context.Context, userID, userType string) (store.User, error)
}

type JobStore interface {
	Create(ctx context.Context, tx store.Execer, input store.JobInput) error
	GetByID(ctx context.Context, jobID string) (store.Job, error)
	UpdateStatus(ctx context.Context, tx store.Execer, jobID, status string) (int64, error)
	CloseIfOpen(ctx context.Context, tx store.Execer, jobID string) (int64, error)
	List(ctx context.Context, filter store.JobFilter) ([]store.Job, error)
}

type ProposalStore interface {
	Create(ctx context.Context, tx store.Execer, input store.ProposalInput) error
	Exists(ctx context.Context, jobID, freelancerID string) (bool, error)
	GetByID(ctx context.Context, tx store.Getter, proposalID string) (store.Proposal, error)
	ListByJob(ctx context.Context, jobID string) ([]store.Proposal, error)
}

type InvitationStore interface {
	Create(ctx context.Context, tx store.Execer, id, jobID, freelancerID, status string) error
	Exists(ctx context.Context, jobID, freelancerID string) (bool, error)
	GetByID(ctx context.Context, tx store.Getter, invitationID string) (store.Invitation, error)
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// LedgerService owns every operation that moves money or connects between
// accounts. Each multi-statement mutation runs inside one TxRunner scope;
// sufficiency checks are conditional updates, never read-then-write.
type LedgerService struct {
	txRunner     db.TxRunner
	users        UserStore
	balances     BalanceStore
	connects     ConnectsStore
	transactions TransactionStore
	jobs         JobStore
	proposals    ProposalStore
	invitations  InvitationStore
	hub          BalanceHub
}

func NewLedgerService(txRunner db.TxRunner, users UserStore, balances BalanceStore, connects ConnectsStore, transactions TransactionStore, jobs JobStore, proposals ProposalStore, invitations InvitationStore, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		users:        users,
		balances:     balances,
		connects:     connects,
		transactions: transactions,
		jobs:         jobs,
		proposals:    proposals,
		invitations:  invitations,
		hub:          hub,
	}
}

func (s *LedgerService) GetBalance(ctx context.Context, userID string) (store.Balance, error) {
	return s.balances.Get(ctx, userID)
}

func (s *LedgerService) GetConnects(ctx context.Context, userID string) (store.Connects, error) {
	connects, err := s.connects.Get(ctx, userID)
	if err != nil {
		if isNoRows(err) {
			return store.Connects{}, ErrConnectsNotFound
		}
		return store.Connects{}, err
	}
	return connects, nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]store.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID, limit, offset)
}

func (s *LedgerService) broadcast(balance store.Balance) {
	s.hub.BroadcastBalance(balance.UserID, websocket.BalanceUpdate{
		UserID:    balance.UserID,
		Available: money.FormatMinor(balance.AvailableAmount),
		Pending:   money.FormatMinor(balance.PendingAmount),
	})
}

func observe(operation string, err error) {
	switch {
	case err == nil:
		metrics.ObserveLedgerOp(operation, "ok")
	case isRejection(err):
		metrics.ObserveLedgerOp(operation, "rejected")
	default:
		metrics.ObserveLedgerOp(operation, "error")
	}
}

func isRejection(err error) bool {
	var insufficient *InsufficientFundsError
	if errors.As(err, &insufficient) {
		return true
	}
	for _, rejection := range []error{
		ErrInvalidAmount, ErrInvalidPackage, ErrInsufficientConnects,
		ErrClientNotFound, ErrFreelancerNotFound, ErrJobNotFound,
		ErrConnectsNotFound, ErrJobNotApproved, ErrJobClosed,
		ErrDuplicateProposal, ErrDuplicateInvitation,
	} {
		if errors.Is(err, rejection) {
			return true
		}
	}
	return false
}
