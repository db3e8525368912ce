package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no-show"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingConfirmed, BookingCancelled, BookingNoShow:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// IsActive reports whether the booking still occupies slot capacity.
func (s BookingStatus) IsActive() bool {
	return s != BookingCancelled && s != BookingNoShow
}

type Booking struct {
	ID          int64         `json:"id"`
	CancelToken string        `json:"cancel_token,omitempty"`
	Status      BookingStatus `json:"status"`
	Date        string        `json:"date"`
	Time        string        `json:"time"`
	Timezone    string        `json:"timezone"`
	Service     string        `json:"service"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Phone       string        `json:"phone"`
	Notes       string        `json:"notes"`

	// Tenant snapshot captured at booking time. Later tenant-config changes
	// must not alter historical bookings.
	ClinicName    string `json:"clinic_name"`
	ClinicEmail   string `json:"clinic_email"`
	ClinicPhone   string `json:"clinic_phone"`
	ClinicAddress string `json:"clinic_address"`
	WebsiteURL    string `json:"website_url"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateBookingRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Timezone     string `json:"timezone"`
	Service      string `json:"service"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Notes        string `json:"notes"`
	SlotsPerHour *int   `json:"slots_per_hour,omitempty"`

	ClinicName    string `json:"clinic_name"`
	ClinicEmail   string `json:"clinic_email"`
	ClinicPhone   string `json:"clinic_phone"`
	ClinicAddress string `json:"clinic_address"`
	WebsiteURL    string `json:"website_url"`
}

type BookingCreatedRes struct {
	ID          int64     `json:"id"`
	CancelToken string    `json:"cancel_token"`
	Status      string    `json:"status"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	CreatedAt   time.Time `json:"created_at"`
}

// CancellationPreview is the read-only summary shown before a client commits
// to cancelling. The window rule is evaluated here but not enforced.
type CancellationPreview struct {
	ID         int64   `json:"id"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Service    string  `json:"service"`
	Name       string  `json:"name"`
	ClinicName string  `json:"clinic_name"`
	CanCancel  bool    `json:"can_cancel"`
	HoursLeft  float64 `json:"hours_left"`
}

type TenantConfig struct {
	Tenant       string    `json:"tenant"`
	SlotsPerHour int       `json:"slots_per_hour"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Business rules
const (
	CancelCutoffHours   = 6
	DefaultSlotsPerHour = 1
)

// StartTime parses the booking's date and time fields. The timezone field is
// stored opaquely; the cutoff window is computed in server-local time.
func (b *Booking) StartTime() (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.Time, time.Local)
}

// HoursUntil returns the hours remaining until the appointment. Negative
// when the appointment is in the past.
func (b *Booking) HoursUntil(now time.Time) float64 {
	start, err := b.StartTime()
	if err != nil {
		return 0
	}
	return start.Sub(now).Hours()
}

// CanCancel checks the client-facing minimum-notice rule. Owner-initiated
// cancellations bypass this rule entirely.
func (b *Booking) CanCancel(now time.Time) bool {
	if !b.Status.IsActive() {
		return false
	}
	return b.HoursUntil(now) >= CancelCutoffHours
}

// SlotKey identifies the bookable window this booking occupies.
func (b *Booking) SlotKey() string {
	return SlotKey(b.Date, b.Time, b.ClinicEmail)
}

func SlotKey(date, timeOfDay, clinicEmail string) string {
	return date + "|" + timeOfDay + "|" + clinicEmail
}
