// Package events fans booking changes out to mail, the message broker and live dashboards.
// Delivery is best effort: a failing notifier is logged and never retried.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go-courier/models"
)

// Type names a booking event; it doubles as the broker routing key
type Type string

const (
	BookingCreated Type = "booking.created"
	BookingUpdated Type = "booking.updated"
)

const notifyTimeout = 10 * time.Second

// Event describes one change to a booking
type Event struct {
	Type        Type                 `json:"type"`
	BookingID   string               `json:"bookingId"`
	Status      models.BookingStatus `json:"status"`
	Email       string               `json:"email"`
	DeliveryMen *string              `json:"deliveryMen"`
	At          time.Time            `json:"at"`

	// Booking is the state after the change, used for mail bodies
	Booking models.Booking `json:"-"`
	// StatusChanged is set on updates that moved the booking to a new status
	StatusChanged bool `json:"-"`
}

// NewEvent builds the event for booking b as it is after the change
func NewEvent(t Type, b models.Booking, at time.Time) Event {
	return Event{
		Type:        t,
		BookingID:   b.ID.Hex(),
		Status:      b.Status,
		Email:       b.Email,
		DeliveryMen: b.DeliveryMen,
		At:          at.UTC(),
		Booking:     b,
	}
}

// Notifier delivers an event somewhere
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

type namedNotifier struct {
	name string
	n    Notifier
}

// Dispatcher hands every published event to all registered notifiers in the background
type Dispatcher struct {
	log       *slog.Logger
	mu        sync.RWMutex
	notifiers []namedNotifier
	wg        sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with no notifiers
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Register adds a notifier under a name used in logs
func (d *Dispatcher) Register(name string, n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifiers = append(d.notifiers, namedNotifier{name: name, n: n})
}

// Publish returns immediately; each notifier runs in its own goroutine
func (d *Dispatcher) Publish(e Event) {
	d.mu.RLock()
	notifiers := make([]namedNotifier, len(d.notifiers))
	copy(notifiers, d.notifiers)
	d.mu.RUnlock()

	for _, nn := range notifiers {
		d.wg.Add(1)
		go func(nn namedNotifier) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()

			if err := nn.n.Notify(ctx, e); err != nil {
				d.log.Warn("event delivery failed",
					"notifier", nn.name,
					"event", e.Type,
					"booking_id", e.BookingID,
					"error", err,
				)
			}
		}(nn)
	}
}

// Wait blocks until every in-flight delivery has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
