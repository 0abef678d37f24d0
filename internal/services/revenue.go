package services

import (
	"context"
	"encoding/json"

	"marketplace/internal/money"
	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type revenueShareDetails struct {
	JobID            string `json:"jobId"`
	OriginalAmount   int64  `json:"originalAmount"`
	PlatformFee      int64  `json:"platformFee"`
	FreelancerAmount int64  `json:"freelancerAmount"`
}

type platformFeeDetails struct {
	JobID          string `json:"jobId"`
	OriginalAmount int64  `json:"originalAmount"`
	PlatformFee    int64  `json:"platformFee"`
}

// ProcessRevenueShare releases escrowed client funds to a freelancer, keeping
// the platform's cut. The job is closed first with a conditional update, so a
// second call for the same job is rejected instead of paying out twice; the
// pending debit is likewise conditional, so the escrow can never go negative.
func (s *LedgerService) ProcessRevenueShare(ctx context.Context, jobID, freelancerID string, amountMinor int64) (transaction store.Transaction, freelancerBalance, clientBalance store.Balance, err error) {
	defer func() { observe("revenue_share", err) }()
	if amountMinor <= 0 {
		err = ErrInvalidAmount
		return
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
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
	platformFee, freelancerAmount := money.SplitRevenue(amountMinor, platformFeePercent)
	transactionID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		closed, err := s.jobs.CloseIfOpen(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if closed == 0 {
			return ErrJobClosed
		}
		rows, err := s.balances.DebitPending(ctx, tx, job.ClientID, amountMinor)
		if err != nil {
			return err
		}
		if rows == 0 {
			return s.insufficientPending(ctx, tx, job.ClientID, amountMinor)
		}
		if err := s.balances.CreditAvailable(ctx, tx, freelancerID, freelancerAmount); err != nil {
			return err
		}
		shareDetails, _ := json.Marshal(revenueShareDetails{
			JobID:            jobID,
			OriginalAmount:   amountMinor,
			PlatformFee:      platformFee,
			FreelancerAmount: freelancerAmount,
		})
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              transactionID,
			UserID:          freelancerID,
			JobID:           &jobID,
			TransactionType: TypeRevenueShare,
			Amount:          freelancerAmount,
			Details:         string(shareDetails),
		}); err != nil {
			return err
		}
		// A fee on a payment under 5 cents rounds to zero; the log only
		// holds positive amounts, so no platform_fee row is written then.
		if platformFee > 0 {
			feeDetails, _ := json.Marshal(platformFeeDetails{
				JobID:          jobID,
				OriginalAmount: amountMinor,
				PlatformFee:    platformFee,
			})
			if err := s.transactions.Create(ctx, tx, store.TransactionInput{
				ID:              uuid.NewString(),
				UserID:          job.ClientID,
				JobID:           &jobID,
				TransactionType: TypePlatformFee,
				Amount:          platformFee,
				Details:         string(feeDetails),
			}); err != nil {
				return err
			}
		}
		transaction, err = s.transactions.GetByID(ctx, tx, transactionID)
		return err
	})
	if err != nil {
		return store.Transaction{}, store.Balance{}, store.Balance{}, err
	}
	freelancerBalance, err = s.balances.Get(ctx, freelancerID)
	if err != nil {
		return store.Transaction{}, store.Balance{}, store.Balance{}, err
	}
	clientBalance, err = s.balances.Get(ctx, job.ClientID)
	if err != nil {
		return store.Transaction{}, store.Balance{}, store.Balance{}, err
	}
	s.broadcast(freelancerBalance)
	s.broadcast(clientBalance)
	return transaction, freelancerBalance, clientBalance, nil
}

func (s *LedgerService) insufficientPending(ctx context.Context, tx store.Getter, userID string, requiredMinor int64) error {
	current := int64(0)
	if balance, err := s.balances.GetTx(ctx, tx, userID); err == nil {
		current = balance.PendingAmount
	}
	return &InsufficientFundsError{CurrentMinor: current, RequiredMinor: requiredMinor, Pending: true}
}
