package handlers

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) GetConnects(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requestUserID(r, r.URL.Query().Get("userId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	connects, err := h.service.GetConnects(r.Context(), userID)
	if err != nil {
		respondLedgerError(w, err, "unable to load connects")
		return
	}
	respondJSON(w, http.StatusOK, connectsPayload(connects))
}

type purchaseConnectsRequest struct {
	UserID         string `json:"userId"`
	PackageDetails struct {
		Amount int64  `json:"amount"`
		Price  string `json:"price"`
	} `json:"packageDetails"`
}

func (h *Handler) PurchaseConnects(w http.ResponseWriter, r *http.Request) {
	var req purchaseConnectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	userID, ok := h.requestUserID(r, req.UserID)
	if !ok {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	priceMinor, err := parseAmountMinor(req.PackageDetails.Price)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_package")
		return
	}
	transaction, connects, balance, err := h.service.PurchaseConnects(r.Context(), userID, req.PackageDetails.Amount, priceMinor)
	if err != nil {
		respondLedgerError(w, err, "unable to purchase connects")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"transaction": transactionPayload(transaction),
		"connects":    connectsPayload(connects),
		"balance":     balancePayload(balance),
	})
}
