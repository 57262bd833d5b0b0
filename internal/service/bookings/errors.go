package bookings

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrSlotNotFound       = errors.New("slot not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrRateLimited        = errors.New("too many booking requests")
	// ErrConcurrentUpdate means the booking changed between read and write.
	ErrConcurrentUpdate = errors.New("booking was modified concurrently")
)

type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}
