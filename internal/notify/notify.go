// Package notify turns domain events into notifications for one recipient
// and hands them to a delivery transport.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
)

var ErrUnknownPayload = errors.New("unknown event payload")

type Notification struct {
	ID          uuid.UUID     `json:"id"`
	Event       eventbus.Type `json:"event"`
	RecipientID int64         `json:"recipient_id"`
	Subject     string        `json:"subject"`
	Body        string        `json:"body"`
	OccurredAt  time.Time     `json:"occurred_at"`
}

// Sender delivers a notification. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, n Notification) error

func (f SenderFunc) Send(ctx context.Context, n Notification) error { return f(ctx, n) }

// Listener returns an event listener that renders each event for
// recipientID and sends it. Send errors are returned to the publisher.
func Listener(s Sender, recipientID int64) eventbus.Listener {
	return func(ctx context.Context, ev eventbus.Event) error {
		n, err := Render(ev, recipientID)
		if err != nil {
			return err
		}
		if err := s.Send(ctx, n); err != nil {
			return fmt.Errorf("notify %d: %w", recipientID, err)
		}
		return nil
	}
}

// Render builds the notification text for one event.
func Render(ev eventbus.Event, recipientID int64) (Notification, error) {
	n := Notification{
		Event:       ev.Type,
		RecipientID: recipientID,
		OccurredAt:  ev.OccurredAt,
	}

	switch p := ev.Payload.(type) {
	case *domain.Booking:
		n.ID = notificationID(ev.Type, p.ID, recipientID)
		date := p.Date.Format(time.DateOnly)
		switch ev.Type {
		case eventbus.BookingCreated:
			n.Subject = "New booking"
			n.Body = fmt.Sprintf("Booking %s: %d seats on %s (slot %d).", p.ID, p.Seats, date, p.SlotID)
		case eventbus.BookingCancelled:
			n.Subject = "Booking cancelled"
			n.Body = fmt.Sprintf("Booking %s for %s (slot %d) was cancelled.", p.ID, date, p.SlotID)
		default:
			return Notification{}, fmt.Errorf("%w: %s with booking", ErrUnknownPayload, ev.Type)
		}

	case *domain.Order:
		n.ID = notificationID(ev.Type, p.ID, recipientID)
		switch ev.Type {
		case eventbus.OrderCreated:
			n.Subject = "New order"
			n.Body = fmt.Sprintf("Order %s for table %s with %d lines.", p.ID, p.TableCode, len(p.Lines))
		case eventbus.OrderPaid, eventbus.OrderPreparing, eventbus.OrderCompleted:
			n.Subject = "Order " + string(p.Status)
			n.Body = fmt.Sprintf("Order %s for table %s is now %s.", p.ID, p.TableCode, p.Status)
		default:
			return Notification{}, fmt.Errorf("%w: %s with order", ErrUnknownPayload, ev.Type)
		}

	case *domain.Review:
		if ev.Type != eventbus.ReviewCreated {
			return Notification{}, fmt.Errorf("%w: %s with review", ErrUnknownPayload, ev.Type)
		}
		n.ID = notificationID(ev.Type, p.ID, recipientID)
		n.Subject = "New review"
		n.Body = fmt.Sprintf("Restaurant %d received a %d-star review: %s", p.RestaurantID, p.Rating, p.Comment)

	default:
		return Notification{}, fmt.Errorf("%w: %T", ErrUnknownPayload, ev.Payload)
	}

	return n, nil
}

// idSpace namespaces notification IDs.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://dinego.dev/notifications"))

// notificationID is stable for one event of one entity and recipient, so a
// retried transaction resends under the same ID and brokers can drop it.
func notificationID(t eventbus.Type, entityID uuid.UUID, recipientID int64) uuid.UUID {
	return uuid.NewSHA1(idSpace, []byte(fmt.Sprintf("%s/%s/%d", t, entityID, recipientID)))
}

// Subscribe registers one listener per distinct recipient on bus for t,
// keeping the order of first appearance. Zero IDs are skipped.
func Subscribe(bus *eventbus.Bus, t eventbus.Type, s Sender, recipients ...int64) int {
	seen := make(map[int64]bool, len(recipients))
	n := 0
	for _, id := range recipients {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		bus.Subscribe(t, Listener(s, id))
		n++
	}
	return n
}
