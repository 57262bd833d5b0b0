package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/dinego/internal/domain"
	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/service"
	"github.com/kirinyoku/dinego/internal/service/bookings"
)

// handleCreateBooking godoc
// @Summary  Book seats in a slot
// @Description  Admits the booking if the slot still has capacity on the date.
// @Tags     bookings
// @Accept   json
// @Produce  json
// @Param    Idempotency-Key  header  string  false  "replay protection"
// @Param    body  body  CreateBookingRequest  true  "booking"
// @Success  201  {object}  domain.Booking
// @Failure  409  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Failure  429  {object}  ErrorResponse
// @Router   /bookings [post]
func handleCreateBooking(svcs *service.Services, idem IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		date, err := domain.ParseDate(req.Date)
		if err != nil {
			respondErr(c, err)
			return
		}

		p := principal(c)
		idempotent(c, idem, func(k string) string { return redisrepo.KeyIdemBooking(p.UserID, k) }, http.StatusCreated,
			func() (any, error) {
				return svcs.Bookings.Create(c.Request.Context(), p, bookings.CreateRequest{
					RestaurantID: req.RestaurantID,
					SlotID:       req.SlotID,
					Date:         date,
					Seats:        req.Seats,
				})
			})
	}
}

// handleListBookings godoc
// @Summary  My bookings
// @Tags     bookings
// @Produce  json
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "page offset"
// @Success  200  {array}  domain.Booking
// @Router   /bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Bookings.ListByCustomer(c.Request.Context(), principal(c), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleGetBooking godoc
// @Summary  Get booking
// @Tags     bookings
// @Produce  json
// @Param    id  path  string  true  "booking id"
// @Success  200  {object}  domain.Booking
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id} [get]
func handleGetBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Bookings.Get(c.Request.Context(), principal(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleCancelBooking godoc
// @Summary  Cancel booking
// @Tags     bookings
// @Produce  json
// @Param    id  path  string  true  "booking id"
// @Success  200  {object}  domain.Booking
// @Failure  409  {object}  ErrorResponse
// @Router   /bookings/{id}/cancel [post]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Bookings.Cancel(c.Request.Context(), principal(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleDeleteBooking godoc
// @Summary  Soft-delete booking
// @Tags     bookings
// @Param    id  path  string  true  "booking id"
// @Success  204
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id} [delete]
func handleDeleteBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		if err := svcs.Bookings.Delete(c.Request.Context(), principal(c), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
