// Package admission decides whether a booking request fits a restaurant slot.
package admission

import (
	"context"
	"fmt"
	"time"

	"github.com/kirinyoku/dinego/internal/domain"
)

// Ledger answers questions about bookings already admitted. Callers must
// run Check and the subsequent insert under the same lock or transaction.
type Ledger interface {
	SumActiveSeats(ctx context.Context, restaurantID int64, date time.Time, slotID int64) (int, error)
	HasDuplicateActiveBooking(ctx context.Context, customerID, restaurantID int64, date time.Time) (bool, error)
}

type Request struct {
	CustomerID int64
	Restaurant domain.Restaurant
	Slot       domain.Slot
	Date       time.Time
	Seats      int
	Now        time.Time
	Location   *time.Location
}

// Check runs the admission rules in order and returns the first violation:
// weekday, restaurant, duplicate booking, sitting time, capacity.
func Check(ctx context.Context, req Request, ledger Ledger) error {
	const op = "admission.Check"

	if req.Seats <= 0 {
		return &domain.ValidationError{Field: "seats", Reason: fmt.Sprintf("%d is not positive", req.Seats)}
	}

	date := domain.Date(req.Date)

	if wd := domain.WeekdayOf(date); wd != req.Slot.Weekday {
		return &InvalidWeekDayError{Date: date, DateWeekday: wd, SlotWeekday: req.Slot.Weekday}
	}

	if req.Slot.RestaurantID != req.Restaurant.ID {
		return &InvalidRestaurantError{
			SlotID:           req.Slot.ID,
			SlotRestaurantID: req.Slot.RestaurantID,
			RestaurantID:     req.Restaurant.ID,
		}
	}

	dup, err := ledger.HasDuplicateActiveBooking(ctx, req.CustomerID, req.Restaurant.ID, date)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if dup {
		return &DuplicateActiveBookingError{CustomerID: req.CustomerID, RestaurantID: req.Restaurant.ID, Date: date}
	}

	if err := checkSittingTime(date, req.Slot.Start, req.Now, req.Location); err != nil {
		return err
	}

	booked, err := ledger.SumActiveSeats(ctx, req.Restaurant.ID, date, req.Slot.ID)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	if booked+req.Seats > req.Restaurant.Capacity {
		return &CapacityExceededError{
			RestaurantID: req.Restaurant.ID,
			Date:         date,
			SlotID:       req.Slot.ID,
			Requested:    req.Seats,
			Remaining:    max(req.Restaurant.Capacity-booked, 0),
		}
	}

	return nil
}

// checkSittingTime rejects past dates and today's slots that already started.
// Any strictly future date passes.
func checkSittingTime(date time.Time, start domain.TimeOfDay, now time.Time, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	today := domain.Date(now)

	switch {
	case date.After(today):
		return nil
	case date.Before(today):
		return &InvalidSittingTimeError{SittingAt: start.On(date, loc), Now: now}
	}

	sitting := start.On(date, loc)
	if !sitting.After(now) {
		return &InvalidSittingTimeError{SittingAt: sitting, Now: now}
	}
	return nil
}
