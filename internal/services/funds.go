package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type fundsDetails struct {
	Method string `json:"method"`
}

// AddFunds credits the spendable balance and appends a deposit record. The
// balance row is created on first use.
func (s *LedgerService) AddFunds(ctx context.Context, userID string, amountMinor int64) (balance store.Balance, err error) {
	defer func() { observe("add_funds", err) }()
	if amountMinor <= 0 {
		return store.Balance{}, ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.balances.CreditAvailable(ctx, tx, userID, amountMinor); err != nil {
			return err
		}
		details, _ := json.Marshal(fundsDetails{Method: "deposit"})
		return s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          userID,
			TransactionType: TypeDeposit,
			Amount:          amountMinor,
			Details:         string(details),
		})
	})
	if err != nil {
		return store.Balance{}, err
	}
	balance, err = s.balances.Get(ctx, userID)
	if err != nil {
		return store.Balance{}, err
	}
	s.broadcast(balance)
	return balance, nil
}

// WithdrawFunds debits the spendable balance. The sufficiency check and the
// decrement are one conditional update, so concurrent withdrawals cannot
// overdraw the account.
func (s *LedgerService) WithdrawFunds(ctx context.Context, userID string, amountMinor int64) (balance store.Balance, err error) {
	defer func() { observe("withdraw_funds", err) }()
	if amountMinor <= 0 {
		return store.Balance{}, ErrInvalidAmount
	}
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.balances.DebitAvailable(ctx, tx, userID, amountMinor)
		if err != nil {
			return err
		}
		if rows == 0 {
			return s.insufficientAvailable(ctx, tx, userID, amountMinor)
		}
		details, _ := json.Marshal(fundsDetails{Method: "withdrawal"})
		return s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              uuid.NewString(),
			UserID:          userID,
			TransactionType: TypeWithdrawal,
			Amount:          amountMinor,
			Details:         string(details),
		})
	})
	if err != nil {
		return store.Balance{}, err
	}
	balance, err = s.balances.Get(ctx, userID)
	if err != nil {
		return store.Balance{}, err
	}
	s.broadcast(balance)
	return balance, nil
}

// insufficientAvailable builds the rejection carrying the current figures. A
// missing balance row reads as zero, matching lazy creation.
func (s *LedgerService) insufficientAvailable(ctx context.Context, tx store.Getter, userID string, requiredMinor int64) error {
	current := int64(0)
	if balance, err := s.balances.GetTx(ctx, tx, userID); err == nil {
		current = balance.AvailableAmount
	}
	return &InsufficientFundsError{CurrentMinor: current, RequiredMinor: requiredMinor}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
