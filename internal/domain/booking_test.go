package domain

import (
	"testing"
	"time"
)

func TestParseBookingStatus(t *testing.T) {
	for _, valid := range []string{"confirmed", "cancelled", "no-show"} {
		if _, ok := ParseBookingStatus(valid); !ok {
			t.Fatalf("Expected %q to parse", valid)
		}
	}
	if _, ok := ParseBookingStatus("pending"); ok {
		t.Fatal("Expected unknown status to be rejected")
	}
}

func TestStatusIsActive(t *testing.T) {
	if !BookingConfirmed.IsActive() {
		t.Fatal("Confirmed bookings occupy capacity")
	}
	if BookingCancelled.IsActive() || BookingNoShow.IsActive() {
		t.Fatal("Cancelled and no-show bookings must not occupy capacity")
	}
}

func TestStartTime(t *testing.T) {
	b := &Booking{Date: "2026-01-20", Time: "10:30"}

	start, err := b.StartTime()
	if err != nil {
		t.Fatalf("StartTime failed: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Fatalf("Unexpected start time: %v", start)
	}

	b = &Booking{Date: "not-a-date", Time: "10:30"}
	if _, err := b.StartTime(); err == nil {
		t.Fatal("Expected error for malformed date")
	}
}

func TestHoursUntil(t *testing.T) {
	now := time.Date(2026, 1, 20, 4, 0, 0, 0, time.Local)
	b := &Booking{Date: "2026-01-20", Time: "10:00"}

	if got := b.HoursUntil(now); got != 6 {
		t.Fatalf("Expected 6 hours, got %.2f", got)
	}

	past := time.Date(2026, 1, 20, 12, 0, 0, 0, time.Local)
	if got := b.HoursUntil(past); got != -2 {
		t.Fatalf("Expected -2 hours, got %.2f", got)
	}
}

func TestCanCancel(t *testing.T) {
	b := &Booking{Status: BookingConfirmed, Date: "2026-01-20", Time: "10:00"}

	atCutoff := time.Date(2026, 1, 20, 4, 0, 0, 0, time.Local)
	if !b.CanCancel(atCutoff) {
		t.Fatal("Exactly at the cutoff should still be cancellable")
	}

	inside := time.Date(2026, 1, 20, 5, 0, 0, 0, time.Local)
	if b.CanCancel(inside) {
		t.Fatal("Inside the cutoff window must not be cancellable")
	}

	b.Status = BookingCancelled
	outside := time.Date(2026, 1, 19, 10, 0, 0, 0, time.Local)
	if b.CanCancel(outside) {
		t.Fatal("Cancelled bookings are never cancellable again")
	}
}

func TestSlotKey(t *testing.T) {
	b := &Booking{Date: "2026-01-20", Time: "10:00", ClinicEmail: "a@b.com"}
	if got := b.SlotKey(); got != "2026-01-20|10:00|a@b.com" {
		t.Fatalf("Unexpected slot key: %q", got)
	}
}
