package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound covers wrong id, wrong token and already-cancelled bookings.
// The message is deliberately ambiguous so callers cannot probe for booking
// existence with token guesses.
var ErrNotFound = errors.New("booking not found or already cancelled")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type SlotFullError struct {
	Date        string
	Time        string
	ClinicEmail string
	Capacity    int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %s %s is fully booked (capacity %d)", e.Date, e.Time, e.Capacity)
}

type CancellationWindowError struct {
	HoursLeft float64
}

func (e *CancellationWindowError) Error() string {
	return fmt.Sprintf("bookings can only be cancelled at least %d hours in advance (%.1f hours remaining)",
		CancelCutoffHours, e.HoursLeft)
}

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
