package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rentnest/visits/internal/http/response"
	"github.com/rentnest/visits/internal/service"
)

type createVisitRequest struct {
	Property int64  `json:"property"`
	Date     string `json:"date"` // "2006-01-02"
	Time     string `json:"time"` // free-text label, e.g. "10:30 AM"
	Notes    string `json:"notes"`
}

// CreateVisit books a property visit for the authenticated tenant.
func (h *Handlers) CreateVisit(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req createVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.Property == 0 {
		response.BadRequest(w, "Property is required")
		return
	}
	if req.Time == "" {
		response.BadRequest(w, "Visit time is required")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(w, "Invalid date, expected YYYY-MM-DD")
		return
	}

	visit, err := h.visits.Create(r.Context(), claims.Sub, service.CreateVisitInput{
		PropertyID: req.Property,
		Date:       date,
		Time:       req.Time,
		Notes:      req.Notes,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Schedule created successfully", visit)
}

// ListTenantVisits returns the tenant's bookings, earliest visit first.
func (h *Handlers) ListTenantVisits(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	visits, err := h.visits.ListForTenant(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", visits)
}

// ListOwnerVisits returns bookings against the owner's properties.
func (h *Handlers) ListOwnerVisits(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	visits, err := h.visits.ListForOwner(r.Context(), claims.Sub)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", visits)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateVisitStatus changes a booking's status. Either party may do so.
func (h *Handlers) UpdateVisitStatus(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid schedule id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	visit, err := h.visits.UpdateStatus(r.Context(), id, claims.Sub, req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Schedule updated", visit)
}

// DeleteVisit removes a booking. Either party may do so.
func (h *Handlers) DeleteVisit(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid schedule id")
		return
	}

	if err := h.visits.Delete(r.Context(), id, claims.Sub); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Schedule deleted successfully", nil)
}
