package services

import (
	"errors"
	"fmt"

	"marketplace/internal/money"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPackage       = errors.New("invalid package details")
	ErrInsufficientConnects = errors.New("insufficient connects")
	ErrClientNotFound       = errors.New("client not found")
	ErrFreelancerNotFound   = errors.New("freelancer not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrConnectsNotFound     = errors.New("connects record not found")
	ErrJobNotApproved       = errors.New("job is not open for proposals")
	ErrJobClosed            = errors.New("job is already closed")
	ErrDuplicateProposal    = errors.New("proposal already submitted for this job")
	ErrDuplicateInvitation  = errors.New("freelancer already invited to this job")
)

// InsufficientFundsError carries the figures the caller needs to remedy the
// failure. Pending marks a shortfall in escrowed funds rather than the
// spendable balance.
type InsufficientFundsError struct {
	CurrentMinor  int64
	RequiredMinor int64
	Pending       bool
}

func (e *InsufficientFundsError) Error() string {
	kind := "available"
	if e.Pending {
		kind = "pending"
	}
	return fmt.Sprintf("insufficient %s funds: have %s, need %s",
		kind, money.FormatMinor(e.CurrentMinor), money.FormatMinor(e.RequiredMinor))
}
