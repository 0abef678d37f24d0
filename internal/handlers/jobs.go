package handlers

import (
	"encoding/json"
	"net/http"

	"marketplace/internal/services"
	"marketplace/internal/store"

	"github.com/go-chi/chi/v5"
)

type createJobRequest struct {
	ClientID        string  `json:"clientId"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	SkillsRequired  string  `json:"skillsRequired"`
	Budget          string  `json:"budget"`
	CategoryID      *string `json:"categoryId"`
	Location        string  `json:"location"`
	ExperienceLevel string  `json:"experienceLevel"`
	JobType         string  `json:"jobType"`
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	clientID, ok := h.requestUserID(r, req.ClientID)
	if !ok {
		respondError(w, http.StatusBadRequest, "clientId is required")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	budgetMinor, err := parseAmountMinor(req.Budget)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	job, balance, err := h.service.CreateJob(r.Context(), services.CreateJobRequest{
		ClientID:        clientID,
		Title:           req.Title,
		Description:     req.Description,
		SkillsRequired:  req.SkillsRequired,
		BudgetMinor:     budgetMinor,
		CategoryID:      req.CategoryID,
		Location:        req.Location,
		ExperienceLevel: req.ExperienceLevel,
		JobType:         req.JobType,
	})
	if err != nil {
		respondLedgerError(w, err, "unable to create job")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"job":     jobPayload(job),
		"balance": balancePayload(balance),
	})
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.GetJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondLedgerError(w, err, "unable to load job")
		return
	}
	respondJSON(w, http.StatusOK, jobPayload(job))
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.JobFilter{Status: query.Get("status")}
	if raw := query.Get("minBudget"); raw != "" {
		minBudget, err := parseAmountMinor(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		filter.MinBudget = &minBudget
	}
	if raw := query.Get("maxBudget"); raw != "" {
		maxBudget, err := parseAmountMinor(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_amount")
			return
		}
		filter.MaxBudget = &maxBudget
	}
	jobs, err := h.service.ListJobs(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load jobs")
		return
	}
	normalized := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		normalized = append(normalized, jobPayload(job))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) ApproveJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.ApproveJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondLedgerError(w, err, "unable to approve job")
		return
	}
	respondJSON(w, http.StatusOK, jobPayload(job))
}

func (h *Handler) RejectJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.RejectJob(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		respondLedgerError(w, err, "unable to reject job")
		return
	}
	respondJSON(w, http.StatusOK, jobPayload(job))
}

type inviteRequest struct {
	FreelancerID string `json:"freelancerId"`
}

func (h *Handler) InviteFreelancer(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.FreelancerID == "" {
		respondError(w, http.StatusBadRequest, "freelancerId is required")
		return
	}
	invitation, err := h.service.InviteFreelancer(r.Context(), chi.URLParam(r, "jobID"), req.FreelancerID)
	if err != nil {
		respondLedgerError(w, err, "unable to invite freelancer")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"invitation": invitationPayload(invitation),
	})
}

type revenueShareRequest struct {
	JobID        string `json:"jobId"`
	FreelancerID string `json:"freelancerId"`
	Amount       string `json:"amount"`
}

func (h *Handler) RevenueShare(w http.ResponseWriter, r *http.Request) {
	var req revenueShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.JobID == "" || req.FreelancerID == "" {
		respondError(w, http.StatusBadRequest, "jobId and freelancerId are required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transaction, freelancerBalance, clientBalance, err := h.service.ProcessRevenueShare(r.Context(), req.JobID, req.FreelancerID, amountMinor)
	if err != nil {
		respondLedgerError(w, err, "unable to process revenue share")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction":       transactionPayload(transaction),
		"freelancerBalance": balancePayload(freelancerBalance),
		"clientBalance":     balancePayload(clientBalance),
	})
}
