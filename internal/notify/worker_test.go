package notify

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/clinicdesk/clinic-bookings/internal/domain"
	"github.com/clinicdesk/clinic-bookings/pkg/events"
)

type mailCall struct {
	kind    string
	to      string
	byOwner bool
}

type fakeMailer struct {
	mu    sync.Mutex
	calls []mailCall
}

func (m *fakeMailer) record(c mailCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
}

func (m *fakeMailer) SendClientConfirmation(b *domain.Booking) error {
	m.record(mailCall{kind: "client_confirmation", to: b.Email})
	return nil
}

func (m *fakeMailer) SendOwnerNewBookingNotice(b *domain.Booking) error {
	m.record(mailCall{kind: "owner_new_booking", to: b.ClinicEmail})
	return nil
}

func (m *fakeMailer) SendClientCancellationNotice(b *domain.Booking, cancelledByOwner bool) error {
	m.record(mailCall{kind: "client_cancellation", to: b.Email, byOwner: cancelledByOwner})
	return nil
}

func (m *fakeMailer) SendOwnerCancellationNotice(b *domain.Booking) error {
	m.record(mailCall{kind: "owner_cancellation", to: b.ClinicEmail})
	return nil
}

func (m *fakeMailer) byKind(kind string) []mailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []mailCall
	for _, c := range m.calls {
		if c.kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// memoryBus is a synchronous in-process stand-in for the NATS bus.
type memoryBus struct {
	mu       sync.Mutex
	handlers map[string][]func(msg *events.Message)
}

func newMemoryBus() *memoryBus {
	return &memoryBus{handlers: make(map[string][]func(msg *events.Message))}
}

func (b *memoryBus) Subscribe(subject string, handler func(msg *events.Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return nil
}

func (b *memoryBus) QueueSubscribe(subject, _ string, handler func(msg *events.Message)) error {
	return b.Subscribe(subject, handler)
}

func (b *memoryBus) Publish(_ context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	b.mu.Lock()
	handlers := b.handlers[subject]
	b.mu.Unlock()
	for _, h := range handlers {
		h(&events.Message{Subject: subject, Data: payload, Timestamp: time.Now()})
	}
	return nil
}

func (b *memoryBus) Close() error { return nil }

func runWorker(t *testing.T, bus *memoryBus, m *fakeMailer) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWorker(bus, m)
	go w.Run(ctx)

	// Run registers its subscriptions before blocking; give it a moment.
	deadline := time.Now().Add(time.Second)
	for {
		bus.mu.Lock()
		registered := len(bus.handlers) == 2
		bus.mu.Unlock()
		if registered {
			return cancel
		}
		if time.Now().After(deadline) {
			t.Fatal("Worker did not subscribe in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestWorker_CreatedSendsBothEmails(t *testing.T) {
	bus := newMemoryBus()
	m := &fakeMailer{}
	cancel := runWorker(t, bus, m)
	defer cancel()

	bus.Publish(context.Background(), events.BookingCreated, events.BookingCreatedEvent{
		BookingID:   1,
		Date:        "2026-01-20",
		Time:        "10:00",
		Email:       "john@example.com",
		ClinicEmail: "clinic@example.com",
	})

	if got := m.byKind("client_confirmation"); len(got) != 1 || got[0].to != "john@example.com" {
		t.Fatalf("Expected one client confirmation to john@example.com, got %v", got)
	}
	if got := m.byKind("owner_new_booking"); len(got) != 1 || got[0].to != "clinic@example.com" {
		t.Fatalf("Expected one owner notice to clinic@example.com, got %v", got)
	}
}

func TestWorker_CreatedSkipsMissingAddresses(t *testing.T) {
	bus := newMemoryBus()
	m := &fakeMailer{}
	cancel := runWorker(t, bus, m)
	defer cancel()

	bus.Publish(context.Background(), events.BookingCreated, events.BookingCreatedEvent{
		BookingID: 2,
		Date:      "2026-01-20",
		Time:      "10:00",
	})

	if len(m.calls) != 0 {
		t.Fatalf("Expected no emails without addresses, got %v", m.calls)
	}
}

func TestWorker_ClientCancellation(t *testing.T) {
	bus := newMemoryBus()
	m := &fakeMailer{}
	cancel := runWorker(t, bus, m)
	defer cancel()

	bus.Publish(context.Background(), events.BookingCancelled, events.BookingCancelledEvent{
		BookingID:   3,
		Email:       "john@example.com",
		ClinicEmail: "clinic@example.com",
	})

	got := m.byKind("client_cancellation")
	if len(got) != 1 || got[0].byOwner {
		t.Fatalf("Expected one client-initiated cancellation notice, got %v", got)
	}
	if got := m.byKind("owner_cancellation"); len(got) != 1 {
		t.Fatalf("Expected owner to be notified of client cancellation, got %v", got)
	}
}

func TestWorker_OwnerCancellationSuppressesOwnerNotice(t *testing.T) {
	bus := newMemoryBus()
	m := &fakeMailer{}
	cancel := runWorker(t, bus, m)
	defer cancel()

	bus.Publish(context.Background(), events.BookingCancelled, events.BookingCancelledEvent{
		BookingID:        4,
		Email:            "john@example.com",
		ClinicEmail:      "clinic@example.com",
		CancelledByOwner: true,
	})

	got := m.byKind("client_cancellation")
	if len(got) != 1 || !got[0].byOwner {
		t.Fatalf("Expected owner-initiated client notice, got %v", got)
	}
	if got := m.byKind("owner_cancellation"); len(got) != 0 {
		t.Fatalf("Owner notice must be suppressed for owner cancellations, got %v", got)
	}
}

func TestWorker_IgnoresMalformedEvents(t *testing.T) {
	bus := newMemoryBus()
	m := &fakeMailer{}
	cancel := runWorker(t, bus, m)
	defer cancel()

	bus.mu.Lock()
	handlers := bus.handlers[events.BookingCreated]
	bus.mu.Unlock()
	for _, h := range handlers {
		h(&events.Message{Subject: events.BookingCreated, Data: []byte("{not json"), Timestamp: time.Now()})
	}

	if len(m.calls) != 0 {
		t.Fatalf("Malformed event must not trigger emails, got %v", m.calls)
	}
}
