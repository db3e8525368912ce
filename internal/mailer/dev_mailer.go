package mailer

import (
	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/pkg/logger"
)

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendClientConfirmation(b *domain.Booking) error {
	subject, text, _ := clientConfirmation(b)
	logger.Info("📧 [DEV MAIL] Client confirmation",
		"to", b.Email,
		"subject", subject,
		"body", text,
	)
	return nil
}

func (d *DevMailer) SendOwnerNewBookingNotice(b *domain.Booking) error {
	subject, text, _ := ownerNewBookingNotice(b)
	logger.Info("📧 [DEV MAIL] Owner new-booking notice",
		"to", b.ClinicEmail,
		"subject", subject,
		"body", text,
	)
	return nil
}

func (d *DevMailer) SendClientCancellationNotice(b *domain.Booking, cancelledByOwner bool) error {
	subject, text, _ := clientCancellationNotice(b, cancelledByOwner)
	logger.Info("📧 [DEV MAIL] Client cancellation notice",
		"to", b.Email,
		"by_owner", cancelledByOwner,
		"subject", subject,
		"body", text,
	)
	return nil
}

func (d *DevMailer) SendOwnerCancellationNotice(b *domain.Booking) error {
	subject, text, _ := ownerCancellationNotice(b)
	logger.Info("📧 [DEV MAIL] Owner cancellation notice",
		"to", b.ClinicEmail,
		"subject", subject,
		"body", text,
	)
	return nil
}
