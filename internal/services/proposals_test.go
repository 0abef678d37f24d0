package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"marketplace/internal/store"
)

func validProposalRequest() SubmitProposalRequest {
	return SubmitProposalRequest{
		JobID:        "job-1",
		FreelancerID: "freelancer-1",
		Content:      "I can do this",
		Timeline:     "2 weeks",
		BidMinor:     50000,
	}
}

func approvedJobStore() stubJobStore {
	return stubJobStore{
		getByIDFn: func(_ context.Context, jobID string) (store.Job, error) {
			return store.Job{ID: jobID, Status: JobStatusApproved}, nil
		},
	}
}

func TestSubmitProposalJobNotApproved(t *testing.T) {
	service := newTestService(serviceStubs{
		jobs: stubJobStore{
			getByIDFn: func(_ context.Context, jobID string) (store.Job, error) {
				return store.Job{ID: jobID, Status: JobStatusPending}, nil
			},
		},
	})
	if _, err := service.SubmitProposal(context.Background(), validProposalRequest()); err != ErrJobNotApproved {
		t.Fatalf("expected ErrJobNotApproved, got %v", err)
	}
}

func TestSubmitProposalJobNotFound(t *testing.T) {
	service := newTestService(serviceStubs{
		jobs: stubJobStore{
			getByIDFn: func(context.Context, string) (store.Job, error) {
				return store.Job{}, sql.ErrNoRows
			},
		},
	})
	if _, err := service.SubmitProposal(context.Background(), validProposalRequest()); err != ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestSubmitProposalDuplicate(t *testing.T) {
	debitCalled := false
	service := newTestService(serviceStubs{
		jobs: approvedJobStore(),
		proposals: stubProposalStore{
			existsFn: func(context.Context, string, string) (bool, error) {
				return true, nil
			},
		},
		connects: stubConnectsStore{
			debitFn: func(context.Context, store.Execer, string, int64) (int64, error) {
				debitCalled = true
				return 1, nil
			},
		},
	})
	if _, err := service.SubmitProposal(context.Background(), validProposalRequest()); err != ErrDuplicateProposal {
		t.Fatalf("expected ErrDuplicateProposal, got %v", err)
	}
	if debitCalled {
		t.Fatalf("no connects should be spent on a duplicate")
	}
}

func TestSubmitProposalInsufficientConnects(t *testing.T) {
	insertCalled := false
	service := newTestService(serviceStubs{
		jobs: approvedJobStore(),
		connects: stubConnectsStore{
			debitFn: func(context.Context, store.Execer, string, int64) (int64, error) {
				return 0, nil
			},
		},
		proposals: stubProposalStore{
			createFn: func(context.Context, store.Execer, store.ProposalInput) error {
				insertCalled = true
				return nil
			},
		},
	})
	if _, err := service.SubmitProposal(context.Background(), validProposalRequest()); err != ErrInsufficientConnects {
		t.Fatalf("expected ErrInsufficientConnects, got %v", err)
	}
	if insertCalled {
		t.Fatalf("proposal must not be inserted without a connect")
	}
}

func TestSubmitProposalSpendsOneConnect(t *testing.T) {
	var spent int64
	var created store.ProposalInput
	service := newTestService(serviceStubs{
		jobs: approvedJobStore(),
		connects: stubConnectsStore{
			debitFn: func(_ context.Context, _ store.Execer, _ string, amount int64) (int64, error) {
				spent = amount
				return 1, nil
			},
		},
		proposals: stubProposalStore{
			createFn: func(_ context.Context, _ store.Execer, input store.ProposalInput) error {
				created = input
				return nil
			},
			getByIDFn: func(_ context.Context, _ store.Getter, proposalID string) (store.Proposal, error) {
				return store.Proposal{ID: proposalID, Status: "submitted"}, nil
			},
		},
	})
	proposal, err := service.SubmitProposal(context.Background(), validProposalRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spent != 1 {
		t.Fatalf("each proposal costs exactly one connect, got %d", spent)
	}
	if created.Status != "submitted" || created.Bid != 50000 {
		t.Fatalf("unexpected proposal insert: %+v", created)
	}
	if proposal.Status != "submitted" {
		t.Fatalf("expected submitted read-back, got %q", proposal.Status)
	}
}

func TestSubmitProposalInsertFailureSurfaces(t *testing.T) {
	boom := errors.New("unique_violation")
	service := newTestService(serviceStubs{
		jobs: approvedJobStore(),
		proposals: stubProposalStore{
			createFn: func(context.Context, store.Execer, store.ProposalInput) error {
				return boom
			},
		},
	})
	if _, err := service.SubmitProposal(context.Background(), validProposalRequest()); !errors.Is(err, boom) {
		t.Fatalf("expected insert failure to surface, got %v", err)
	}
}

func TestListProposalsJobNotFound(t *testing.T) {
	service := newTestService(serviceStubs{
		jobs: stubJobStore{
			getByIDFn: func(context.Context, string) (store.Job, error) {
				return store.Job{}, sql.ErrNoRows
			},
		},
	})
	if _, err := service.ListProposals(context.Background(), "missing"); err != ErrJobNotFound {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
