package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
)

// CreateBooking handles POST /v1/bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", CodeInvalidInput)
		return
	}

	booking, err := h.bookings.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.BookingCreatedRes{
		ID:          booking.ID,
		CancelToken: booking.CancelToken,
		Status:      string(booking.Status),
		Date:        booking.Date,
		Time:        booking.Time,
		CreatedAt:   booking.CreatedAt,
	})
}

// CancellationPreview handles GET /v1/bookings/{id}/cancel, the read-only
// summary shown before the client commits to cancelling.
func (h *Handlers) CancellationPreview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking ID", CodeInvalidInput)
		return
	}

	token := r.URL.Query().Get("cancel_token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "cancel_token is required", CodeInvalidInput)
		return
	}

	preview, err := h.bookings.GetForCancellation(r.Context(), id, token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, preview)
}

// CancelBooking handles DELETE /v1/bookings/{id}. The by_owner flag is
// caller-asserted, not authenticated; it only bypasses the notice window.
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking ID", CodeInvalidInput)
		return
	}

	token := r.URL.Query().Get("cancel_token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "cancel_token is required", CodeInvalidInput)
		return
	}

	byOwner := r.URL.Query().Get("by_owner") == "true"

	if err := h.bookings.Cancel(r.Context(), id, token, byOwner); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled"})
}

// SlotCounts handles GET /v1/bookings/counts, the aggregate used by
// front-end availability displays.
func (h *Handlers) SlotCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.bookings.Counts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, counts)
}
