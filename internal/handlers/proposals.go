package handlers

import (
	"encoding/json"
	"net/http"

	"marketplace/internal/services"

	"github.com/go-chi/chi/v5"
)

type submitProposalRequest struct {
	FreelancerID    string `json:"freelancerId"`
	ProposalContent string `json:"proposalContent"`
	Timeline        string `json:"timeline"`
	Bid             string `json:"bid"`
}

func (h *Handler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	var req submitProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	freelancerID, ok := h.requestUserID(r, req.FreelancerID)
	if !ok {
		respondError(w, http.StatusBadRequest, "freelancerId is required")
		return
	}
	if req.ProposalContent == "" {
		respondError(w, http.StatusBadRequest, "proposalContent is required")
		return
	}
	bidMinor, err := parseAmountMinor(req.Bid)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	proposal, err := h.service.SubmitProposal(r.Context(), services.SubmitProposalRequest{
		JobID:        chi.URLParam(r, "jobID"),
		FreelancerID: freelancerID,
		Content:      req.ProposalContent,
		Timeline:     req.Timeline,
		BidMinor:     bidMinor,
	})
	if err != nil {
		respondLedgerError(w, err, "unable to submit proposal")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"proposal": proposalPayload(proposal),
	})
}

func (h *Handler) ListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.service.ListProposals(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondLedgerError(w, err, "unable to load proposals")
		return
	}
	normalized := make([]map[string]any, 0, len(proposals))
	for _, proposal := range proposals {
		normalized = append(normalized, proposalPayload(proposal))
	}
	respondJSON(w, http.StatusOK, normalized)
}
