package httpgin

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/dinego/internal/admission"
	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
	"github.com/kirinyoku/dinego/internal/lifecycle"
	"github.com/kirinyoku/dinego/internal/service/bookings"
	"github.com/kirinyoku/dinego/internal/service/orders"
	"github.com/kirinyoku/dinego/internal/service/query"
	"github.com/kirinyoku/dinego/internal/service/restaurants"
	"github.com/kirinyoku/dinego/internal/service/reviews"
	"github.com/kirinyoku/dinego/internal/slots"
)

type errMapping struct {
	target error
	status int
	code   string
}

// errTable is checked in order; the first matching sentinel wins.
var errTable = []errMapping{
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},

	{restaurants.ErrRestaurantNotFound, http.StatusNotFound, "restaurant_not_found"},
	{bookings.ErrRestaurantNotFound, http.StatusNotFound, "restaurant_not_found"},
	{orders.ErrRestaurantNotFound, http.StatusNotFound, "restaurant_not_found"},
	{reviews.ErrRestaurantNotFound, http.StatusNotFound, "restaurant_not_found"},
	{query.ErrRestaurantNotFound, http.StatusNotFound, "restaurant_not_found"},
	{restaurants.ErrWindowNotFound, http.StatusNotFound, "window_not_found"},
	{bookings.ErrSlotNotFound, http.StatusNotFound, "slot_not_found"},
	{bookings.ErrBookingNotFound, http.StatusNotFound, "booking_not_found"},
	{orders.ErrOrderNotFound, http.StatusNotFound, "order_not_found"},
	{orders.ErrDishNotFound, http.StatusNotFound, "dish_not_found"},

	{bookings.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},

	{admission.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{admission.ErrDuplicateActiveBooking, http.StatusConflict, "duplicate_active_booking"},
	{lifecycle.ErrInvalidTransition, http.StatusConflict, "invalid_state_transition"},
	{bookings.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
	{orders.ErrConcurrentUpdate, http.StatusConflict, "concurrent_update"},
	{restaurants.ErrRestaurantConflict, http.StatusConflict, "restaurant_exists"},
	{restaurants.ErrDishConflict, http.StatusConflict, "dish_exists"},

	{admission.ErrInvalidWeekDay, http.StatusUnprocessableEntity, "invalid_weekday"},
	{admission.ErrInvalidRestaurant, http.StatusUnprocessableEntity, "invalid_restaurant"},
	{admission.ErrInvalidSittingTime, http.StatusUnprocessableEntity, "invalid_sitting_time"},
	{slots.ErrOverlap, http.StatusUnprocessableEntity, "slot_overlap"},
	{domain.ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},

	{eventbus.ErrListener, http.StatusBadGateway, "notification_failed"},
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	_ = c.Error(err)

	for _, m := range errTable {
		if !errors.Is(err, m.target) {
			continue
		}

		if m.status == http.StatusTooManyRequests {
			var rl *bookings.RateLimitedError
			if errors.As(err, &rl) {
				c.Header("Retry-After", retryAfter(rl.RetryAfter))
			}
		}

		resp := ErrorResponse{Error: publicMessage(m, err), Code: m.code, Details: details(err)}
		c.AbortWithStatusJSON(m.status, resp)
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: "internal"})
}

// publicMessage hides internals of upstream failures; domain errors are
// safe to show as they are built from request data.
func publicMessage(m errMapping, err error) string {
	if m.status == http.StatusBadGateway {
		return "notification delivery failed"
	}
	return innermost(err).Error()
}

// innermost strips the "op:" prefixes added on the way up by returning the
// first error in the chain that the table knows how to describe.
func innermost(err error) error {
	var (
		ve  *domain.ValidationError
		oe  *slots.OverlapError
		te  *lifecycle.TransitionError
		ce  *admission.CapacityExceededError
		de  *admission.DuplicateActiveBookingError
		we  *admission.InvalidWeekDayError
		re  *admission.InvalidRestaurantError
		se  *admission.InvalidSittingTimeError
		dne *orders.DishNotFoundError
		rle *bookings.RateLimitedError
	)
	switch {
	case errors.As(err, &oe):
		return oe
	case errors.As(err, &ce):
		return ce
	case errors.As(err, &de):
		return de
	case errors.As(err, &we):
		return we
	case errors.As(err, &re):
		return re
	case errors.As(err, &se):
		return se
	case errors.As(err, &te):
		return te
	case errors.As(err, &dne):
		return dne
	case errors.As(err, &rle):
		return rle
	case errors.As(err, &ve):
		return ve
	}

	for _, m := range errTable {
		if errors.Is(err, m.target) {
			return m.target
		}
	}
	return err
}

func details(err error) any {
	var (
		ve *domain.ValidationError
		oe *slots.OverlapError
		te *lifecycle.TransitionError
		ce *admission.CapacityExceededError
	)
	switch {
	case errors.As(err, &oe):
		return gin.H{
			"candidate": gin.H{"start": oe.Candidate.Start, "end": oe.Candidate.End},
			"conflict":  gin.H{"id": oe.Conflict.ID, "start": oe.Conflict.Start, "end": oe.Conflict.End},
			"weekday":   oe.Candidate.Weekday,
		}
	case errors.As(err, &ce):
		return gin.H{
			"restaurant_id": ce.RestaurantID,
			"slot_id":       ce.SlotID,
			"date":          ce.Date.Format(time.DateOnly),
			"remaining":     ce.Remaining,
		}
	case errors.As(err, &te):
		return gin.H{"machine": te.Machine, "state": te.State, "action": te.Action}
	case errors.As(err, &ve):
		return gin.H{"field": ve.Field}
	}
	return nil
}

func retryAfter(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "bad_request"})
}
