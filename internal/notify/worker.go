package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/internal/mailer"
	"github.com/clinicdesk/clinic-bookings/pkg/events"
	"github.com/clinicdesk/clinic-bookings/pkg/logger"
)

// Worker consumes booking lifecycle events and sends the corresponding
// emails. It is fully decoupled from the request path: a mail failure is
// logged and dropped, never surfaced to the booking caller.
type Worker struct {
	bus    events.Subscriber
	mailer mailer.Service
}

func NewWorker(bus events.Subscriber, m mailer.Service) *Worker {
	return &Worker{bus: bus, mailer: m}
}

// Run subscribes to booking events and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.bus.QueueSubscribe(events.BookingCreated, "notify", w.handleCreated); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.BookingCreated, err)
	}
	if err := w.bus.QueueSubscribe(events.BookingCancelled, "notify", w.handleCancelled); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.BookingCancelled, err)
	}

	logger.Info("Notify worker started")
	<-ctx.Done()
	return ctx.Err()
}

func (w *Worker) handleCreated(msg *events.Message) {
	var event events.BookingCreatedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode booking created event", "error", err)
		return
	}

	b := &domain.Booking{
		ID:            event.BookingID,
		Date:          event.Date,
		Time:          event.Time,
		Timezone:      event.Timezone,
		Service:       event.Service,
		Name:          event.Name,
		Email:         event.Email,
		Phone:         event.Phone,
		Notes:         event.Notes,
		ClinicName:    event.ClinicName,
		ClinicEmail:   event.ClinicEmail,
		ClinicPhone:   event.ClinicPhone,
		ClinicAddress: event.ClinicAddress,
		WebsiteURL:    event.WebsiteURL,
		CreatedAt:     event.CreatedAt,
	}

	if b.Email != "" {
		if err := w.mailer.SendClientConfirmation(b); err != nil {
			logger.Error("Failed to send client confirmation", "error", err, "booking_id", b.ID)
		}
	}
	if b.ClinicEmail != "" {
		if err := w.mailer.SendOwnerNewBookingNotice(b); err != nil {
			logger.Error("Failed to send owner new-booking notice", "error", err, "booking_id", b.ID)
		}
	}
}

func (w *Worker) handleCancelled(msg *events.Message) {
	var event events.BookingCancelledEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to decode booking cancelled event", "error", err)
		return
	}

	b := &domain.Booking{
		ID:          event.BookingID,
		Date:        event.Date,
		Time:        event.Time,
		Timezone:    event.Timezone,
		Service:     event.Service,
		Name:        event.Name,
		Email:       event.Email,
		ClinicName:  event.ClinicName,
		ClinicEmail: event.ClinicEmail,
		ClinicPhone: event.ClinicPhone,
		WebsiteURL:  event.WebsiteURL,
	}

	if b.Email != "" {
		if err := w.mailer.SendClientCancellationNotice(b, event.CancelledByOwner); err != nil {
			logger.Error("Failed to send client cancellation notice", "error", err, "booking_id", b.ID)
		}
	}

	// The owner already knows about their own cancellation.
	if !event.CancelledByOwner && b.ClinicEmail != "" {
		if err := w.mailer.SendOwnerCancellationNotice(b); err != nil {
			logger.Error("Failed to send owner cancellation notice", "error", err, "booking_id", b.ID)
		}
	}
}
