package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"marketplace/internal/store"
)

func validCreateJobRequest() CreateJobRequest {
	return CreateJobRequest{
		ClientID:    "client-1",
		Title:       "Build an API",
		BudgetMinor: 100000,
	}
}

func TestCreateJobClientNotFound(t *testing.T) {
	service := newTestService(serviceStubs{
		users: stubUserStore{
			getByIDAndTypeFn: func(context.Context, string, string) (store.User, error) {
				return store.User{}, sql.ErrNoRows
			},
		},
	})
	if _, _, err := service.CreateJob(context.Background(), validCreateJobRequest()); err != ErrClientNotFound {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestCreateJobRequiresClientRole(t *testing.T) {
	var requestedType string
	service := newTestService(serviceStubs{
		users: stubUserStore{
			getByIDAndTypeFn: func(_ context.Context, userID, userType string) (store.User, error) {
				requestedType = userType
				return store.User{ID: userID, UserType: userType}, nil
			},
		},
	})
	if _, _, err := service.CreateJob(context.Background(), validCreateJobRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedType != UserTypeClient {
		t.Fatalf("expected client role check, got %q", requestedType)
	}
}

func TestCreateJobChargesFeeAndEscrowsBudget(t *testing.T) {
	var debitedFee, escrowed int64
	var created store.JobInput
	var recorded store.TransactionInput
	service := newTestService(serviceStubs{
		balances: stubBalanceStore{
			debitAvailableFn: func(_ context.Context, _ store.Execer, _ string, amountMinor int64) (int64, error) {
				debitedFee = amountMinor
				return 1, nil
			},
			creditPendingFn: func(_ context.Context, _ store.Execer, _ string, amountMinor int64) error {
				escrowed = amountMinor
				return nil
			},
		},
		jobs: stubJobStore{
			createFn: func(_ context.Context, _ store.Execer, input store.JobInput) error {
				created = input
				return nil
			},
			getByIDFn: func(_ context.Context, jobID string) (store.Job, error) {
				return store.Job{ID: jobID, Status: JobStatusPending, Budget: 100000}, nil
			},
		},
		transactions: stubTransactionStore{
			createFn: func(_ context.Context, _ store.Execer, input store.TransactionInput) error {
				recorded = input
				return nil
			},
		},
	})
	job, _, err := service.CreateJob(context.Background(), validCreateJobRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 5% of 1000.00 is 50.00
	if debitedFee != 5000 {
		t.Fatalf("expected posting fee of 5000, got %d", debitedFee)
	}
	if escrowed != 100000 {
		t.Fatalf("expected full budget escrowed, got %d", escrowed)
	}
	if created.Status != JobStatusPending {
		t.Fatalf("new jobs must start pending, got %q", created.Status)
	}
	if recorded.TransactionType != TypeJobPostingFee || recorded.Amount != 5000 {
		t.Fatalf("unexpected fee record: %+v", recorded)
	}
	if recorded.JobID == nil || *recorded.JobID != created.ID {
		t.Fatalf("fee record must reference the job")
	}
	var details jobPostingFeeDetails
	if err := json.Unmarshal([]byte(recorded.Details), &details); err != nil {
		t.Fatalf("details should be json: %v", err)
	}
	if details.Budget != 100000 || details.FeePercentage != 5 {
		t.Fatalf("unexpected fee details: %+v", details)
	}
	if job.Status != JobStatusPending {
		t.Fatalf("expected pending job read-back, got %q", job.Status)
	}
}

func TestCreateJobInsufficientFeeFunds(t *testing.T) {
	jobCreated := false
	service := newTestService(serviceStubs{
		balances: stubBalanceStore{
			debitAvailableFn: func(context.Context, store.Execer, string, int64) (int64, error) {
				return 0, nil
			},
			getTxFn: func(_ context.Context, _ store.Getter, userID string) (store.Balance, error) {
				return store.Balance{UserID: userID, AvailableAmount: 1000}, nil
			},
		},
		jobs: stubJobStore{
			createFn: func(context.Context, store.Execer, store.JobInput) error {
				jobCreated = true
				return nil
			},
		},
	})
	_, _, err := service.CreateJob(context.Background(), validCreateJobRequest())
	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientFundsError, got %v", err)
	}
	if jobCreated {
		t.Fatalf("job must not be created when the fee debit is rejected")
	}
}

func TestCreateJobZeroFeeSkipsDebitAndRecord(t *testing.T) {
	debitCalled := false
	recordCalled := false
	var escrowed int64
	service := newTestService(serviceStubs{
		balances: stubBalanceStore{
			debitAvailableFn: func(context.Context, store.Execer, string, int64) (int64, error) {
				debitCalled = true
				return 1, nil
			},
			creditPendingFn: func(_ context.Context, _ store.Execer, _ string, amountMinor int64) error {
				escrowed = amountMinor
				return nil
			},
		},
		transactions: stubTransactionStore{
			createFn: func(context.Context, store.Execer, store.TransactionInput) error {
				recordCalled = true
				return nil
			},
		},
	})
	req := validCreateJobRequest()
	// 5% of 9 cents rounds to zero
	req.BudgetMinor = 9
	if _, _, err := service.CreateJob(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if debitCalled {
		t.Fatalf("a zero fee must not touch the available balance")
	}
	if recordCalled {
		t.Fatalf("a zero fee must not write a fee record")
	}
	if escrowed != 9 {
		t.Fatalf("expected the budget escrowed regardless, got %d", escrowed)
	}
}

func TestCreateJobInvalidBudget(t *testing.T) {
	service := newTestService(serviceStubs{})
	req := validCreateJobRequest()
	req.BudgetMinor = 0
	if _, _, err := service.CreateJob(context.Background(), req); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestApproveJobNotFound(t *testing.T) {
	service := newTestService(serviceStubs{
		jobs: stubJobStore{
			updateStatusFn: func(context.Context, store.Execer, string, string) (int64, error) {
				return 0, nil
			},
		},
	})
	if _, err := service.ApproveJob(context.Background(), "missing"); err != ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestApproveJobSetsStatus(t *testing.T) {
	var setStatus string
	service := newTestService(serviceStubs{
		jobs: stubJobStore{
			updateStatusFn: func(_ context.Context, _ store.Execer, _ string, status string) (int64, error) {
				setStatus = status
				return 1, nil
			},
			getByIDFn: func(_ context.Context, jobID string) (store.Job, error) {
				return store.Job{ID: jobID, Status: setStatus}, nil
			},
		},
	})
	job, err := service.ApproveJob(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != JobStatusApproved {
		t.Fatalf("expected approved, got %q", job.Status)
	}
}

func TestRejectJobKeepsFee(t *testing.T) {
	creditCalled := false
	service := newTestService(serviceStubs{
		balances: stubBalanceStore{
			creditAvailableFn: func(context.Context, store.Execer, string, int64) error {
				creditCalled = true
				return nil
			},
		},
		jobs: stubJobStore{
			getByIDFn: func(_ context.Context, jobID string) (store.Job, error) {
				return store.Job{ID: jobID, Status: JobStatusRejected}, nil
			},
		},
	})
	if _, err := service.RejectJob(context.Background(), "job-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creditCalled {
		t.Fatalf("rejection must not refund the posting fee")
	}
}

func TestInviteFreelancerDuplicate(t *testing.T) {
	service := newTestService(serviceStubs{
		invitations: stubInvitationStore{
			existsFn: func(context.Context, string, string) (bool, error) {
				return true, nil
			},
		},
	})
	if _, err := service.InviteFreelancer(context.Background(), "job-1", "freelancer-1"); err != ErrDuplicateInvitation {
		t.Fatalf("expected ErrDuplicateInvitation, got %v", err)
	}
}

func TestInviteFreelancerUnknownFreelancer(t *testing.T) {
	service := newTestService(serviceStubs{
		users: stubUserStore{
			getByIDAndTypeFn: func(context.Context, string, string) (store.User, error) {
				return store.User{}, sql.ErrNoRows
			},
		},
	})
	if _, err := service.InviteFreelancer(context.Background(), "job-1", "nobody"); err != ErrFreelancerNotFound {
		t.Fatalf("expected ErrFreelancerNotFound, got %v", err)
	}
}
