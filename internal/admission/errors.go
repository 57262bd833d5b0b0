package admission

import (
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/dinego/internal/domain"
)

var (
	ErrInvalidWeekDay         = errors.New("booking date does not fall on the slot weekday")
	ErrInvalidRestaurant      = errors.New("slot belongs to another restaurant")
	ErrInvalidSittingTime     = errors.New("sitting time is in the past")
	ErrDuplicateActiveBooking = errors.New("customer already has an active booking that day")
	ErrCapacityExceeded       = errors.New("not enough seats left")

	// ErrRejected marks business-rule rejections as opposed to bad input.
	ErrRejected = errors.New("booking rejected")
)

type InvalidWeekDayError struct {
	Date        time.Time
	DateWeekday domain.Weekday
	SlotWeekday domain.Weekday
}

func (e *InvalidWeekDayError) Error() string {
	return fmt.Sprintf("date %s is a %s but the slot is on %s",
		e.Date.Format(time.DateOnly), e.DateWeekday, e.SlotWeekday)
}

func (e *InvalidWeekDayError) Unwrap() []error {
	return []error{ErrInvalidWeekDay, domain.ErrValidation}
}

type InvalidRestaurantError struct {
	SlotID           int64
	SlotRestaurantID int64
	RestaurantID     int64
}

func (e *InvalidRestaurantError) Error() string {
	return fmt.Sprintf("slot %d belongs to restaurant %d, not %d",
		e.SlotID, e.SlotRestaurantID, e.RestaurantID)
}

func (e *InvalidRestaurantError) Unwrap() []error {
	return []error{ErrInvalidRestaurant, domain.ErrValidation}
}

type InvalidSittingTimeError struct {
	SittingAt time.Time
	Now       time.Time
}

func (e *InvalidSittingTimeError) Error() string {
	return fmt.Sprintf("sitting at %s is not after %s",
		e.SittingAt.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e *InvalidSittingTimeError) Unwrap() []error {
	return []error{ErrInvalidSittingTime, domain.ErrValidation}
}

type DuplicateActiveBookingError struct {
	CustomerID   int64
	RestaurantID int64
	Date         time.Time
}

func (e *DuplicateActiveBookingError) Error() string {
	return fmt.Sprintf("customer %d already booked restaurant %d on %s",
		e.CustomerID, e.RestaurantID, e.Date.Format(time.DateOnly))
}

func (e *DuplicateActiveBookingError) Unwrap() []error {
	return []error{ErrDuplicateActiveBooking, ErrRejected}
}

type CapacityExceededError struct {
	RestaurantID int64
	Date         time.Time
	SlotID       int64
	Requested    int
	Remaining    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("restaurant %d slot %d on %s: %d seats requested, %d left",
		e.RestaurantID, e.SlotID, e.Date.Format(time.DateOnly), e.Requested, e.Remaining)
}

func (e *CapacityExceededError) Unwrap() []error {
	return []error{ErrCapacityExceeded, ErrRejected}
}
