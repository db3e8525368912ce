package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/clinicdesk/clinic-bookings/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"
)

// BookingCreatedEvent carries a full snapshot of the booking so the notify
// worker can render emails without a repository round trip.
type BookingCreatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Timezone      string    `json:"timezone"`
	Service       string    `json:"service"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Notes         string    `json:"notes"`
	ClinicName    string    `json:"clinic_name"`
	ClinicEmail   string    `json:"clinic_email"`
	ClinicPhone   string    `json:"clinic_phone"`
	ClinicAddress string    `json:"clinic_address"`
	WebsiteURL    string    `json:"website_url"`
	CreatedAt     time.Time `json:"created_at"`
}

type BookingCancelledEvent struct {
	BookingID        int64     `json:"booking_id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Timezone         string    `json:"timezone"`
	Service          string    `json:"service"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	ClinicName       string    `json:"clinic_name"`
	ClinicEmail      string    `json:"clinic_email"`
	ClinicPhone      string    `json:"clinic_phone"`
	WebsiteURL       string    `json:"website_url"`
	CancelledByOwner bool      `json:"cancelled_by_owner"`
	CancelledAt      time.Time `json:"cancelled_at"`
}
