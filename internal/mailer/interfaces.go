package mailer

import (
	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/pkg/config"
)

// Service is the notification sink for booking lifecycle emails. All sends
// are best-effort; callers log failures and never propagate them.
type Service interface {
	SendClientConfirmation(b *domain.Booking) error
	SendOwnerNewBookingNotice(b *domain.Booking) error
	SendClientCancellationNotice(b *domain.Booking, cancelledByOwner bool) error
	SendOwnerCancellationNotice(b *domain.Booking) error
}

// NewFromConfig selects the mailer implementation: dev mode logs emails,
// MailerSend is preferred when an API key is present, SMTP otherwise.
func NewFromConfig(cfg config.EmailConfig) Service {
	if cfg.DevMode {
		return NewDevMailer()
	}
	if cfg.MailerSendKey != "" {
		return NewMailerSend(cfg.MailerSendKey, cfg.SMTPFromName, cfg.SMTPFrom)
	}
	return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPUseTLS)
}
