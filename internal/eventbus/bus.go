// Package eventbus dispatches lifecycle events to listeners chosen by the
// caller. A Bus is meant to be built per operation: the call site subscribes
// exactly the recipients of the event it is about to publish.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type Type string

const (
	BookingCreated   Type = "booking.created"
	BookingCancelled Type = "booking.cancelled"
	OrderCreated     Type = "order.created"
	OrderPaid        Type = "order.paid"
	OrderPreparing   Type = "order.preparing"
	OrderCompleted   Type = "order.completed"
	ReviewCreated    Type = "review.created"
)

// Event is transient; Payload points at the entity that triggered it.
type Event struct {
	Type       Type
	Payload    any
	OccurredAt time.Time
}

type Listener func(ctx context.Context, ev Event) error

var ErrListener = errors.New("event listener failed")

// ListenerError wraps the first listener failure of a Publish call.
type ListenerError struct {
	Type  Type
	Index int
	Err   error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("%s listener #%d: %v", e.Type, e.Index, e.Err)
}

func (e *ListenerError) Unwrap() []error {
	return []error{ErrListener, e.Err}
}

type Bus struct {
	mu        sync.Mutex
	listeners map[Type][]Listener
	now       func() time.Time
}

func New() *Bus {
	return &Bus{
		listeners: make(map[Type][]Listener),
		now:       time.Now,
	}
}

func (b *Bus) Subscribe(t Type, l Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[t] = append(b.listeners[t], l)
}

// Publish calls every listener of t in registration order on the calling
// goroutine. The first failing listener stops dispatch.
func (b *Bus) Publish(ctx context.Context, t Type, payload any) error {
	b.mu.Lock()
	ls := make([]Listener, len(b.listeners[t]))
	copy(ls, b.listeners[t])
	b.mu.Unlock()

	ev := Event{Type: t, Payload: payload, OccurredAt: b.now()}
	for i, l := range ls {
		if err := l(ctx, ev); err != nil {
			return &ListenerError{Type: t, Index: i, Err: err}
		}
	}

	return nil
}

// Len is the number of listeners subscribed to t.
func (b *Bus) Len(t Type) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[t])
}
