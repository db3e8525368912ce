package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/internal/service"
	"github.com/clinicdesk/clinic-bookings/pkg/auth"
	"github.com/clinicdesk/clinic-bookings/pkg/logger"
)

type Handlers struct {
	bookings  service.BookingService
	configs   service.ConfigService
	jwtSecret string
}

func New(bookings service.BookingService, configs service.ConfigService, jwtSecret string) *Handlers {
	return &Handlers{
		bookings:  bookings,
		configs:   configs,
		jwtSecret: jwtSecret,
	}
}

// Error codes returned in the JSON error envelope
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeSlotFull      = "SLOT_FULL"
	CodeNotFound      = "NOT_FOUND"
	CodeCancelWindow  = "CANCEL_WINDOW"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeInternalError = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code,omitempty"`
	HoursLeft *float64 `json:"hours_left,omitempty"`
}

// RequireAdmin guards the administrative routes with a bearer token.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Missing or invalid authorization header", CodeUnauthorized)
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.Parse(token, h.jwtSecret)
		if err != nil || claims.Role != "admin" {
			writeError(w, http.StatusUnauthorized, "Invalid token", CodeUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), logger.TenantKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, errorResponse{Error: message, Code: code})
}

// writeServiceError maps domain errors onto HTTP statuses: validation 400,
// slot full 409, not found 404, cancellation window 409, anything else 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error(), CodeInvalidInput)
		return
	}

	var sf *domain.SlotFullError
	if errors.As(err, &sf) {
		writeError(w, http.StatusConflict, sf.Error(), CodeSlotFull)
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error(), CodeNotFound)
		return
	}

	var cw *domain.CancellationWindowError
	if errors.As(err, &cw) {
		hours := cw.HoursLeft
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     cw.Error(),
			Code:      CodeCancelWindow,
			HoursLeft: &hours,
		})
		return
	}

	logger.ErrorContext(r.Context(), "Unexpected service error", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "Something went wrong", CodeInternalError)
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 100
	offset = 0

	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	return limit, offset
}
