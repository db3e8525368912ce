package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendClientConfirmation(b *domain.Booking) error {
	subject, text, html := clientConfirmation(b)
	return m.sendEmail(b.Email, b.Name, subject, text, html)
}

func (m *MailerSendClient) SendOwnerNewBookingNotice(b *domain.Booking) error {
	subject, text, html := ownerNewBookingNotice(b)
	return m.sendEmail(b.ClinicEmail, b.ClinicName, subject, text, html)
}

func (m *MailerSendClient) SendClientCancellationNotice(b *domain.Booking, cancelledByOwner bool) error {
	subject, text, html := clientCancellationNotice(b, cancelledByOwner)
	return m.sendEmail(b.Email, b.Name, subject, text, html)
}

func (m *MailerSendClient) SendOwnerCancellationNotice(b *domain.Booking) error {
	subject, text, html := ownerCancellationNotice(b)
	return m.sendEmail(b.ClinicEmail, b.ClinicName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
