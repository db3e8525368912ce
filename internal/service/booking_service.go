package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/internal/repository"
	"github.com/clinicdesk/clinic-bookings/internal/utils"
	"github.com/clinicdesk/clinic-bookings/pkg/events"
	"github.com/clinicdesk/clinic-bookings/pkg/logger"
)

var (
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe  = regexp.MustCompile(`^\d{2}:\d{2}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)
)

type BookingService interface {
	Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, token string, byOwner bool) error
	GetForCancellation(ctx context.Context, id int64, token string) (*domain.CancellationPreview, error)
	Counts(ctx context.Context) (map[string]int, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	configs  ConfigService
	bus      events.Publisher
	slots    slotLocks
	ids      idGenerator
}

func NewBookingService(
	bookings repository.BookingRepository,
	configs ConfigService,
	bus events.Publisher,
) BookingService {
	return &bookingService{
		bookings: bookings,
		configs:  configs,
		bus:      bus,
	}
}

func (s *bookingService) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	capacity, err := s.resolveCapacity(ctx, req)
	if err != nil {
		return nil, err
	}

	// The count-check and the insert below form a check-then-act pair;
	// serializing per slot key keeps concurrent requests for the same slot
	// from both passing the capacity check.
	key := domain.SlotKey(req.Date, req.Time, req.ClinicEmail)
	mu := s.slots.acquire(key)
	defer mu.Unlock()

	count, err := s.bookings.CountActive(ctx, req.Date, req.Time, req.ClinicEmail)
	if err != nil {
		return nil, &domain.StorageError{Op: "count bookings", Err: err}
	}
	if count >= capacity {
		return nil, &domain.SlotFullError{
			Date:        req.Date,
			Time:        req.Time,
			ClinicEmail: req.ClinicEmail,
			Capacity:    capacity,
		}
	}

	token, err := newCancelToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate cancel token: %w", err)
	}

	b := &domain.Booking{
		ID:            s.ids.Next(),
		CancelToken:   token,
		Status:        domain.BookingConfirmed,
		Date:          req.Date,
		Time:          req.Time,
		Timezone:      defaultString(req.Timezone, "UTC"),
		Service:       defaultString(req.Service, "consultation"),
		Name:          defaultString(req.Name, "Guest"),
		Email:         utils.NormalizeEmail(req.Email),
		Phone:         utils.NormalizeString(req.Phone),
		Notes:         utils.NormalizeString(req.Notes),
		ClinicName:    utils.NormalizeString(req.ClinicName),
		ClinicEmail:   req.ClinicEmail,
		ClinicPhone:   utils.NormalizeString(req.ClinicPhone),
		ClinicAddress: utils.NormalizeString(req.ClinicAddress),
		WebsiteURL:    utils.NormalizeString(req.WebsiteURL),
		CreatedAt:     time.Now(),
	}

	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, &domain.StorageError{Op: "insert booking", Err: err}
	}

	event := events.BookingCreatedEvent{
		BookingID:     b.ID,
		Date:          b.Date,
		Time:          b.Time,
		Timezone:      b.Timezone,
		Service:       b.Service,
		Name:          b.Name,
		Email:         b.Email,
		Phone:         b.Phone,
		Notes:         b.Notes,
		ClinicName:    b.ClinicName,
		ClinicEmail:   b.ClinicEmail,
		ClinicPhone:   b.ClinicPhone,
		ClinicAddress: b.ClinicAddress,
		WebsiteURL:    b.WebsiteURL,
		CreatedAt:     b.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", b.ID)
	}

	return b, nil
}

func (s *bookingService) Cancel(ctx context.Context, id int64, token string, byOwner bool) error {
	b, err := s.bookings.FindByIDAndToken(ctx, id, token)
	if err != nil {
		return &domain.StorageError{Op: "find booking", Err: err}
	}
	if b == nil {
		return domain.ErrNotFound
	}

	if !byOwner {
		if hours := b.HoursUntil(time.Now()); hours < domain.CancelCutoffHours {
			return &domain.CancellationWindowError{HoursLeft: hours}
		}
	}

	ok, err := s.bookings.MarkCancelled(ctx, id, token)
	if err != nil {
		return &domain.StorageError{Op: "cancel booking", Err: err}
	}
	if !ok {
		// Lost a race with another cancellation attempt.
		return domain.ErrNotFound
	}

	event := events.BookingCancelledEvent{
		BookingID:        b.ID,
		Date:             b.Date,
		Time:             b.Time,
		Timezone:         b.Timezone,
		Service:          b.Service,
		Name:             b.Name,
		Email:            b.Email,
		ClinicName:       b.ClinicName,
		ClinicEmail:      b.ClinicEmail,
		ClinicPhone:      b.ClinicPhone,
		WebsiteURL:       b.WebsiteURL,
		CancelledByOwner: byOwner,
		CancelledAt:      time.Now(),
	}
	if err := s.bus.Publish(ctx, events.BookingCancelled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking cancelled event", "error", err, "booking_id", b.ID)
	}

	return nil
}

func (s *bookingService) GetForCancellation(ctx context.Context, id int64, token string) (*domain.CancellationPreview, error) {
	b, err := s.bookings.FindByIDAndToken(ctx, id, token)
	if err != nil {
		return nil, &domain.StorageError{Op: "find booking", Err: err}
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	return &domain.CancellationPreview{
		ID:         b.ID,
		Date:       b.Date,
		Time:       b.Time,
		Service:    b.Service,
		Name:       b.Name,
		ClinicName: b.ClinicName,
		CanCancel:  b.CanCancel(now),
		HoursLeft:  b.HoursUntil(now),
	}, nil
}

func (s *bookingService) Counts(ctx context.Context) (map[string]int, error) {
	counts, err := s.bookings.CountsBySlot(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "count slots", Err: err}
	}
	return counts, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, &domain.StorageError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

func (s *bookingService) resolveCapacity(ctx context.Context, req *domain.CreateBookingRequest) (int, error) {
	if req.SlotsPerHour != nil && *req.SlotsPerHour > 0 {
		return *req.SlotsPerHour, nil
	}

	cfg, err := s.configs.Get(ctx, req.ClinicEmail)
	if err != nil {
		return 0, err
	}
	return cfg.SlotsPerHour, nil
}

func validateCreateRequest(req *domain.CreateBookingRequest) error {
	req.Date = utils.NormalizeString(req.Date)
	req.Time = utils.NormalizeString(req.Time)
	// Normalized here so the capacity count, the slot lock key and the
	// persisted row all see the same tenant key.
	req.ClinicEmail = utils.NormalizeEmail(req.ClinicEmail)

	if req.Date == "" {
		return &domain.ValidationError{Field: "date", Reason: "required"}
	}
	if !dateRe.MatchString(req.Date) {
		return &domain.ValidationError{Field: "date", Reason: "must match YYYY-MM-DD"}
	}
	if req.Time == "" {
		return &domain.ValidationError{Field: "time", Reason: "required"}
	}
	if !timeRe.MatchString(req.Time) {
		return &domain.ValidationError{Field: "time", Reason: "must match HH:MM"}
	}
	// The regexes only check shape; reject values like 10:61 or Feb 30 that
	// would break the cancellation window math later.
	if _, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, time.Local); err != nil {
		return &domain.ValidationError{Field: "time", Reason: "must be a valid calendar date and time"}
	}
	if email := utils.NormalizeEmail(req.Email); email != "" && !emailRe.MatchString(email) {
		return &domain.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

// newCancelToken returns 256 bits of hex-encoded randomness.
func newCancelToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func defaultString(s, fallback string) string {
	if v := utils.NormalizeString(s); v != "" {
		return v
	}
	return fallback
}
