package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"marketplace/internal/services"
	"marketplace/internal/store"
)

func TestSubmitProposalResponse(t *testing.T) {
	var passed services.SubmitProposalRequest
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubService{
		submitProposalFn: func(_ context.Context, req services.SubmitProposalRequest) (store.Proposal, error) {
			passed = req
			return store.Proposal{
				ID:           "proposal-1",
				JobID:        req.JobID,
				FreelancerID: req.FreelancerID,
				Content:      req.Content,
				Bid:          req.BidMinor,
				Status:       "submitted",
			}, nil
		},
	})
	rr := postJSONWithJobID(t, handler.SubmitProposal, "/jobs/job-1/proposals", "job-1", map[string]string{
		"freelancerId":    "freelancer-1",
		"proposalContent": "I can do this",
		"timeline":        "2 weeks",
		"bid":             "500.00",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if passed.JobID != "job-1" || passed.FreelancerID != "freelancer-1" || passed.BidMinor != 50000 {
		t.Fatalf("unexpected request passed to service: %+v", passed)
	}
	var response map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	proposal, ok := response["proposal"].(map[string]any)
	if !ok {
		t.Fatalf("expected proposal in response, got %v", response)
	}
	if proposal["status"] != "submitted" || proposal["bid"] != "500.00" {
		t.Fatalf("unexpected proposal payload: %v", proposal)
	}
}

func TestSubmitProposalInsufficientConnects(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubService{
		submitProposalFn: func(context.Context, services.SubmitProposalRequest) (store.Proposal, error) {
			return store.Proposal{}, services.ErrInsufficientConnects
		},
	})
	rr := postJSONWithJobID(t, handler.SubmitProposal, "/jobs/job-1/proposals", "job-1", map[string]string{
		"freelancerId":    "freelancer-1",
		"proposalContent": "I can do this",
		"bid":             "500.00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var response map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if response["error"] != "insufficient_connects" {
		t.Fatalf("expected insufficient_connects, got %v", response)
	}
}

func TestSubmitProposalDuplicate(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubService{
		submitProposalFn: func(context.Context, services.SubmitProposalRequest) (store.Proposal, error) {
			return store.Proposal{}, services.ErrDuplicateProposal
		},
	})
	rr := postJSONWithJobID(t, handler.SubmitProposal, "/jobs/job-1/proposals", "job-1", map[string]string{
		"freelancerId":    "freelancer-1",
		"proposalContent": "I can do this",
		"bid":             "500.00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestSubmitProposalJobNotApproved(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{}, stubService{
		submitProposalFn: func(context.Context, services.SubmitProposalRequest) (store.Proposal, error) {
			return store.Proposal{}, services.ErrJobNotApproved
		},
	})
	rr := postJSONWithJobID(t, handler.SubmitProposal, "/jobs/job-1/proposals", "job-1", map[string]string{
		"freelancerId":    "freelancer-1",
		"proposalContent": "I can do this",
		"bid":             "500.00",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
