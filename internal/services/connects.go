package services

import (
	"context"
	"encoding/json"

	"marketplace/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type connectPackage struct {
	Amount int64 `json:"amount"`
	Price  int64 `json:"price"`
}

// PurchaseConnects converts spendable balance into bidding credits: one
// conditional debit of the price, one connects credit, one log entry.
func (s *LedgerService) PurchaseConnects(ctx context.Context, userID string, amount, priceMinor int64) (transaction store.Transaction, connects store.Connects, balance store.Balance, err error) {
	defer func() { observe("purchase_connects", err) }()
	if amount <= 0 || priceMinor <= 0 {
		err = ErrInvalidPackage
		return
	}
	transactionID := uuid.NewString()
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		rows, err := s.balances.DebitAvailable(ctx, tx, userID, priceMinor)
		if err != nil {
			return err
		}
		if rows == 0 {
			return s.insufficientAvailable(ctx, tx, userID, priceMinor)
		}
		if err := s.connects.Credit(ctx, tx, userID, amount); err != nil {
			return err
		}
		details, _ := json.Marshal(connectPackage{Amount: amount, Price: priceMinor})
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:              transactionID,
			UserID:          userID,
			TransactionType: TypeConnectPurchase,
			Amount:          priceMinor,
			Details:         string(details),
		}); err != nil {
			return err
		}
		transaction, err = s.transactions.GetByID(ctx, tx, transactionID)
		return err
	})
	if err != nil {
		return store.Transaction{}, store.Connects{}, store.Balance{}, err
	}
	connects, err = s.connects.Get(ctx, userID)
	if err != nil {
		return store.Transaction{}, store.Connects{}, store.Balance{}, err
	}
	balance, err = s.balances.Get(ctx, userID)
	if err != nil {
		return store.Transaction{}, store.Connects{}, store.Balance{}, err
	}
	s.broadcast(balance)
	return transaction, connects, balance, nil
}

// GrantSignupConnects seeds a freelancer's connects pool at registration.
func (s *LedgerService) GrantSignupConnects(ctx context.Context, tx store.Execer, userID string) error {
	return s.connects.Credit(ctx, tx, userID, signupConnectsGrant)
}
