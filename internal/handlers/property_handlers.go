package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rentnest/visits/internal/http/response"
)

type propertyRef struct {
	PID   string `json:"pid"`
	Title string `json:"title"`
}

type tenantListResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message,omitempty"`
	Property     propertyRef `json:"property"`
	TotalTenants int         `json:"totalTenants"`
	Data         interface{} `json:"data"`
}

// PropertyTenants lists the distinct tenants who booked a visit to the
// property, unscored.
func (h *Handlers) PropertyTenants(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	list, err := h.matches.TenantsForProperty(r.Context(), pid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg := ""
	if list.Total == 0 {
		msg = "No tenants have scheduled visits for this property yet"
	}

	response.WriteJSON(w, http.StatusOK, tenantListResponse{
		Success:      true,
		Message:      msg,
		Property:     propertyRef{PID: list.Property.PID, Title: list.Property.Title},
		TotalTenants: list.Total,
		Data:         list.Tenants,
	})
}

// PropertyTenantsSorted ranks the property's visiting tenants against the
// owner's preference profile, best fit first.
func (h *Handlers) PropertyTenantsSorted(w http.ResponseWriter, r *http.Request) {
	pid := chi.URLParam(r, "pid")

	result, err := h.matches.RankedTenants(r.Context(), pid)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	msg := ""
	if result.Total == 0 {
		msg = "No tenants have scheduled visits"
	}

	response.WriteJSON(w, http.StatusOK, tenantListResponse{
		Success:      true,
		Message:      msg,
		Property:     propertyRef{PID: result.Property.PID, Title: result.Property.Title},
		TotalTenants: result.Total,
		Data:         result.Entries,
	})
}
