package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"marketplace/internal/auth"
	"marketplace/internal/websocket"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(r, r.URL.Query().Get("userId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	respondJSON(w, http.StatusOK, balancePayload(balance))
}

type fundsRequest struct {
	UserID string `json:"userId"`
	Amount string `json:"amount"`
}

func (h *Handler) AddFunds(w http.ResponseWriter, r *http.Request) {
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	userID, ok := h.requestUserID(r, req.UserID)
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	balance, err := h.service.AddFunds(r.Context(), userID, amountMinor)
	if err != nil {
		respondLedgerError(w, err, "unable to add funds")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "funds added",
		"balance": balancePayload(balance),
	})
}

func (h *Handler) WithdrawFunds(w http.ResponseWriter, r *http.Request) {
	var req fundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	userID, ok := h.requestUserID(r, req.UserID)
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	balance, err := h.service.WithdrawFunds(r.Context(), userID, amountMinor)
	if err != nil {
		respondLedgerError(w, err, "unable to withdraw funds")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "funds withdrawn",
		"balance": balancePayload(balance),
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID, ok := h.requestUserID(r, query.Get("userId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit
	transactions, err := h.service.ListTransactions(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, transaction := range transactions {
		normalized = append(normalized, transactionPayload(transaction))
	}
	respondJSON(w, http.StatusOK, normalized)
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
