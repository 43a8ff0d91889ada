package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rentnest/visits/internal/http/response"
)

type purchaseRequest struct {
	SubscriptionID int64 `json:"subscriptionId"`
	DurationInDays int   `json:"durationInDays"`
}

// PurchaseSubscription creates a dated grant binding the caller to a plan.
func (h *Handlers) PurchaseSubscription(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.SubscriptionID == 0 {
		response.BadRequest(w, "subscriptionId is required")
		return
	}

	grant, err := h.subscriptions.Purchase(r.Context(), claims.Sub, claims.Role, req.SubscriptionID, req.DurationInDays)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Subscription activated", grant)
}

// SubscriptionHistory lists the caller's grants, newest first.
func (h *Handlers) SubscriptionHistory(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	grants, err := h.subscriptions.History(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", grants)
}

// ActiveSubscription returns the caller's currently active grant, if any.
func (h *Handlers) ActiveSubscription(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	grant, err := h.subscriptions.Active(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", grant)
}
