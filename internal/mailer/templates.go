package mailer

import (
	"fmt"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
)

// The booking carries a snapshot of the clinic's contact details, so emails
// for old bookings keep the details that were current when the client booked.

func clinicDisplayName(b *domain.Booking) string {
	if b.ClinicName != "" {
		return b.ClinicName
	}
	return "the clinic"
}

func clientConfirmation(b *domain.Booking) (subject, text, html string) {
	clinic := clinicDisplayName(b)
	subject = fmt.Sprintf("Booking confirmed — %s on %s at %s", clinic, b.Date, b.Time)
	text = fmt.Sprintf("Hi %s,\n\nYour %s appointment at %s is confirmed for %s at %s (%s).\n\nClinic phone: %s\nAddress: %s\n\nTo cancel, visit %s and use your cancellation link. Cancellations are accepted up to %d hours before the appointment.",
		b.Name, b.Service, clinic, b.Date, b.Time, b.Timezone,
		b.ClinicPhone, b.ClinicAddress, b.WebsiteURL, domain.CancelCutoffHours)
	html = fmt.Sprintf(`
		<h2>Your booking is confirmed</h2>
		<p>Hi %s,</p>
		<p>Your <strong>%s</strong> appointment at <strong>%s</strong> is confirmed for:</p>
		<p style="font-size: 18px;"><strong>%s at %s</strong> (%s)</p>
		<p>Clinic phone: %s<br>Address: %s</p>
		<p>Need to cancel? Use the cancellation link on <a href="%s">%s</a>. Cancellations are accepted up to %d hours before the appointment.</p>
	`, b.Name, b.Service, clinic, b.Date, b.Time, b.Timezone,
		b.ClinicPhone, b.ClinicAddress, b.WebsiteURL, b.WebsiteURL, domain.CancelCutoffHours)
	return subject, text, html
}

func ownerNewBookingNotice(b *domain.Booking) (subject, text, html string) {
	subject = fmt.Sprintf("New booking: %s on %s at %s", b.Service, b.Date, b.Time)
	text = fmt.Sprintf("A new booking was made.\n\nService: %s\nDate: %s at %s (%s)\nClient: %s\nEmail: %s\nPhone: %s\nNotes: %s",
		b.Service, b.Date, b.Time, b.Timezone, b.Name, b.Email, b.Phone, b.Notes)
	html = fmt.Sprintf(`
		<h2>New booking received</h2>
		<p><strong>%s</strong> on <strong>%s at %s</strong> (%s)</p>
		<p>Client: %s<br>Email: %s<br>Phone: %s</p>
		<p>Notes: %s</p>
	`, b.Service, b.Date, b.Time, b.Timezone, b.Name, b.Email, b.Phone, b.Notes)
	return subject, text, html
}

func clientCancellationNotice(b *domain.Booking, cancelledByOwner bool) (subject, text, html string) {
	clinic := clinicDisplayName(b)
	if cancelledByOwner {
		// Apologetic variant: the cancellation was not the client's choice.
		subject = fmt.Sprintf("We're sorry — your appointment on %s was cancelled", b.Date)
		text = fmt.Sprintf("Hi %s,\n\nWe're sorry: %s had to cancel your %s appointment on %s at %s.\n\nPlease rebook at %s or call %s — we apologise for the inconvenience.",
			b.Name, clinic, b.Service, b.Date, b.Time, b.WebsiteURL, b.ClinicPhone)
		html = fmt.Sprintf(`
			<h2>Your appointment was cancelled</h2>
			<p>Hi %s,</p>
			<p>We're sorry: <strong>%s</strong> had to cancel your %s appointment on <strong>%s at %s</strong>.</p>
			<p>Please <a href="%s">rebook</a> or call %s — we apologise for the inconvenience.</p>
		`, b.Name, clinic, b.Service, b.Date, b.Time, b.WebsiteURL, b.ClinicPhone)
		return subject, text, html
	}

	subject = fmt.Sprintf("Cancellation confirmed — %s on %s", b.Service, b.Date)
	text = fmt.Sprintf("Hi %s,\n\nYour %s appointment at %s on %s at %s has been cancelled.\n\nYou can book a new appointment any time at %s.",
		b.Name, b.Service, clinic, b.Date, b.Time, b.WebsiteURL)
	html = fmt.Sprintf(`
		<h2>Cancellation confirmed</h2>
		<p>Hi %s,</p>
		<p>Your %s appointment at %s on <strong>%s at %s</strong> has been cancelled.</p>
		<p>You can <a href="%s">book a new appointment</a> any time.</p>
	`, b.Name, b.Service, clinic, b.Date, b.Time, b.WebsiteURL)
	return subject, text, html
}

func ownerCancellationNotice(b *domain.Booking) (subject, text, html string) {
	subject = fmt.Sprintf("Booking cancelled: %s on %s at %s", b.Service, b.Date, b.Time)
	text = fmt.Sprintf("A client cancelled their booking.\n\nService: %s\nDate: %s at %s (%s)\nClient: %s\nEmail: %s\n\nThe slot is available again.",
		b.Service, b.Date, b.Time, b.Timezone, b.Name, b.Email)
	html = fmt.Sprintf(`
		<h2>Booking cancelled</h2>
		<p><strong>%s</strong> on <strong>%s at %s</strong> (%s)</p>
		<p>Client: %s<br>Email: %s</p>
		<p>The slot is available again.</p>
	`, b.Service, b.Date, b.Time, b.Timezone, b.Name, b.Email)
	return subject, text, html
}
