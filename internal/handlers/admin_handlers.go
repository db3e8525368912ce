package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListAllBookings handles GET /v1/admin/bookings, a reporting view ordered
// by creation time, newest first. Cancel tokens are stripped from the output.
func (h *Handlers) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	bookings, err := h.bookings.ListAll(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	for i := range bookings {
		bookings[i].CancelToken = ""
	}

	writeJSON(w, http.StatusOK, bookings)
}

// GetTenantConfig handles GET /v1/admin/config/{tenant}
func (h *Handlers) GetTenantConfig(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	if tenant == "" {
		writeError(w, http.StatusBadRequest, "tenant is required", CodeInvalidInput)
		return
	}

	cfg, err := h.configs.Get(r.Context(), tenant)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// SetTenantConfig handles PUT /v1/admin/config/{tenant}
func (h *Handlers) SetTenantConfig(w http.ResponseWriter, r *http.Request) {
	tenant := chi.URLParam(r, "tenant")
	if tenant == "" {
		writeError(w, http.StatusBadRequest, "tenant is required", CodeInvalidInput)
		return
	}

	var body struct {
		SlotsPerHour string `json:"slots_per_hour"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", CodeInvalidInput)
		return
	}

	cfg, err := h.configs.Set(r.Context(), tenant, body.SlotsPerHour)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}
