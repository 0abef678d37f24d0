package handlers

import (
	"encoding/json"
	"net/http"

	"marketplace/internal/money"
	"marketplace/internal/services"
	"marketplace/internal/store"

	"github.com/lib/pq"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondLedgerError maps service failures onto the wire. Insufficiency
// carries the current and required figures so the client can remedy it.
func respondLedgerError(w http.ResponseWriter, err error, fallback string) {
	if insufficient, ok := err.(*services.InsufficientFundsError); ok {
		payload := map[string]any{
			"error":          "insufficient_funds",
			"requiredAmount": money.FormatMinor(insufficient.RequiredMinor),
		}
		if insufficient.Pending {
			payload["currentPendingBalance"] = money.FormatMinor(insufficient.CurrentMinor)
		} else {
			payload["currentBalance"] = money.FormatMinor(insufficient.CurrentMinor)
		}
		respondJSON(w, http.StatusBadRequest, payload)
		return
	}
	switch err {
	case services.ErrInvalidAmount:
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case services.ErrInvalidPackage:
		respondError(w, http.StatusBadRequest, "invalid_package")
	case services.ErrInsufficientConnects:
		respondError(w, http.StatusBadRequest, "insufficient_connects")
	case services.ErrClientNotFound:
		respondError(w, http.StatusNotFound, "client_not_found")
	case services.ErrFreelancerNotFound:
		respondError(w, http.StatusNotFound, "freelancer_not_found")
	case services.ErrJobNotFound:
		respondError(w, http.StatusNotFound, "job_not_found")
	case services.ErrConnectsNotFound:
		respondError(w, http.StatusNotFound, "connects_not_found")
	case services.ErrJobNotApproved:
		respondError(w, http.StatusBadRequest, "job_not_approved")
	case services.ErrJobClosed:
		respondError(w, http.StatusBadRequest, "job_closed")
	case services.ErrDuplicateProposal:
		respondError(w, http.StatusBadRequest, "duplicate_proposal")
	case services.ErrDuplicateInvitation:
		respondError(w, http.StatusBadRequest, "duplicate_invitation")
	default:
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			respondError(w, http.StatusBadRequest, "duplicate_request")
			return
		}
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

func balancePayload(balance store.Balance) map[string]any {
	return map[string]any{
		"userId":          balance.UserID,
		"availableAmount": money.FormatMinor(balance.AvailableAmount),
		"pendingAmount":   money.FormatMinor(balance.PendingAmount),
		"lastUpdated":     balance.LastUpdated,
	}
}

func connectsPayload(connects store.Connects) map[string]any {
	return map[string]any{
		"userId":      connects.UserID,
		"connects":    connects.Balance,
		"lastUpdated": connects.LastUpdated,
	}
}

func transactionPayload(transaction store.Transaction) map[string]any {
	payload := map[string]any{
		"id":              transaction.ID,
		"userId":          transaction.UserID,
		"transactionType": transaction.TransactionType,
		"amount":          money.FormatMinor(transaction.Amount),
		"details":         parseDetails(transaction.Details),
		"transactionDate": transaction.TransactionDate,
	}
	if transaction.JobID != nil {
		payload["jobId"] = *transaction.JobID
	}
	return payload
}

func jobPayload(job store.Job) map[string]any {
	payload := map[string]any{
		"id":              job.ID,
		"clientId":        job.ClientID,
		"title":           job.Title,
		"description":     job.Description,
		"skillsRequired":  job.SkillsRequired,
		"budget":          money.FormatMinor(job.Budget),
		"status":          job.Status,
		"location":        job.Location,
		"experienceLevel": job.ExperienceLevel,
		"jobType":         job.JobType,
		"createdAt":       job.CreatedAt,
		"updatedAt":       job.UpdatedAt,
	}
	if job.CategoryID != nil {
		payload["categoryId"] = *job.CategoryID
	}
	return payload
}

func proposalPayload(proposal store.Proposal) map[string]any {
	return map[string]any{
		"id":              proposal.ID,
		"jobId":           proposal.JobID,
		"freelancerId":    proposal.FreelancerID,
		"proposalContent": proposal.Content,
		"timeline":        proposal.Timeline,
		"bid":             money.FormatMinor(proposal.Bid),
		"status":          proposal.Status,
		"createdAt":       proposal.CreatedAt,
	}
}

func invitationPayload(invitation store.Invitation) map[string]any {
	return map[string]any{
		"id":           invitation.ID,
		"jobId":        invitation.JobID,
		"freelancerId": invitation.FreelancerID,
		"status":       invitation.Status,
		"createdAt":    invitation.CreatedAt,
	}
}

func parseDetails(raw string) any {
	if raw == "" {
		return nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return raw
	}
	return parsed
}
