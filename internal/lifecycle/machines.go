package lifecycle

import (
	"fmt"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
)

var Booking = NewTable("booking", domain.BookingActive, []Transition[domain.BookingStatus, domain.BookingAction]{
	{Action: domain.BookingCancel, From: domain.BookingActive, To: domain.BookingCancelled, Event: eventbus.BookingCancelled},
})

var Order = NewTable("order", domain.OrderCreated, []Transition[domain.OrderStatus, domain.OrderAction]{
	{Action: domain.OrderAwaitPayment, From: domain.OrderCreated, To: domain.OrderPaid, Event: eventbus.OrderPaid},
	{Action: domain.OrderPrepare, From: domain.OrderPaid, To: domain.OrderPreparing, Event: eventbus.OrderPreparing},
	{Action: domain.OrderComplete, From: domain.OrderPreparing, To: domain.OrderCompleted, Event: eventbus.OrderCompleted},
})

func ParseOrderAction(name string) (domain.OrderAction, error) {
	a := domain.OrderAction(name)
	if !Order.Knows(a) {
		return "", &domain.ValidationError{Field: "transition", Reason: fmt.Sprintf("unknown order transition %q", name)}
	}
	return a, nil
}
