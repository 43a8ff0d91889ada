package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rentnest/visits/internal/http/response"
	"github.com/rentnest/visits/internal/service"
)

type preferenceRequest struct {
	PropertyID    int64    `json:"propertyId"`
	TenantTypes   []string `json:"tenantTypes"`
	Notes         string   `json:"notes"`
	Gender        *string  `json:"gender"`
	Profession    *string  `json:"profession"`
	MaritalStatus *string  `json:"maritalStatus"`
	MinAge        *int     `json:"minAge"`
	MaxAge        *int     `json:"maxAge"`
}

func (req *preferenceRequest) toInput() service.PreferenceInput {
	return service.PreferenceInput{
		PropertyID:    req.PropertyID,
		TenantTypes:   req.TenantTypes,
		Notes:         req.Notes,
		Gender:        req.Gender,
		Profession:    req.Profession,
		MaritalStatus: req.MaritalStatus,
		MinAge:        req.MinAge,
		MaxAge:        req.MaxAge,
	}
}

// CreatePreference records the owner's ideal-tenant rules for a property.
func (h *Handlers) CreatePreference(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}
	if req.PropertyID == 0 || len(req.TenantTypes) == 0 {
		response.BadRequest(w, "Property and tenantTypes are required")
		return
	}

	pref, err := h.preferences.Create(r.Context(), claims.Sub, req.toInput())
	if err != nil {
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusCreated, "Preferred tenant created successfully", pref)
}

// ListPreferences returns the owner's profiles, optionally one property's.
func (h *Handlers) ListPreferences(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var propertyID *int64
	if raw := r.URL.Query().Get("propertyId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid propertyId")
			return
		}
		propertyID = &id
	}

	prefs, err := h.preferences.ListForOwner(r.Context(), claims.Sub, propertyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "", prefs)
}

// UpdatePreference rewrites a profile's rules. Owner-scoped.
func (h *Handlers) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid preference id")
		return
	}

	var req preferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	pref, err := h.preferences.Update(r.Context(), id, claims.Sub, req.toInput())
	if err != nil {
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Preferred tenant updated", pref)
}

// DeletePreference removes a profile. Owner-scoped.
func (h *Handlers) DeletePreference(w http.ResponseWriter, r *http.Request) {
	claims := getClaims(r)
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := urlID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid preference id")
		return
	}

	if err := h.preferences.Delete(r.Context(), id, claims.Sub); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.OK(w, http.StatusOK, "Preferred tenant deleted successfully", nil)
}
