package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/service"
)

// handleListRestaurants godoc
// @Summary  List restaurants
// @Tags     restaurants
// @Produce  json
// @Param    limit   query  int  false  "page size"
// @Param    offset  query  int  false  "page offset"
// @Success  200  {array}   domain.Restaurant
// @Failure  500  {object}  ErrorResponse
// @Router   /restaurants [get]
func handleListRestaurants(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := parseIntDefault(c.Query("limit"), 0)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Query.ListRestaurants(c.Request.Context(), limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "30")
	}
}

// handleGetRestaurant godoc
// @Summary  Get restaurant
// @Tags     restaurants
// @Produce  json
// @Param    id   path  int  true  "restaurant id"
// @Success  200  {object}  domain.Restaurant
// @Failure  404  {object}  ErrorResponse
// @Router   /restaurants/{id} [get]
func handleGetRestaurant(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Query.GetRestaurant(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "30")
	}
}

// handleMenu godoc
// @Summary  Restaurant menu
// @Tags     restaurants
// @Produce  json
// @Param    id   path  int  true  "restaurant id"
// @Success  200  {array}   domain.Dish
// @Failure  404  {object}  ErrorResponse
// @Router   /restaurants/{id}/menu [get]
func handleMenu(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Query.Menu(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "60")
	}
}

// handleListSlots godoc
// @Summary  Live slots of a weekday
// @Tags     slots
// @Produce  json
// @Param    id       path   int  true  "restaurant id"
// @Param    weekday  query  int  true  "ISO weekday, 1 = Monday"
// @Success  200  {array}   domain.Slot
// @Failure  400  {object}  ErrorResponse
// @Router   /restaurants/{id}/slots [get]
func handleListSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		wd, ok := parseWeekday(c.Query("weekday"))
		if !ok {
			badRequest(c, "weekday must be in 1..7")
			return
		}
		out, err := svcs.Query.ListSlots(c.Request.Context(), id, wd)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "30")
	}
}

// handleAvailability godoc
// @Summary  Remaining seats per slot on a date
// @Tags     slots
// @Produce  json
// @Param    id    path   int     true  "restaurant id"
// @Param    date  query  string  true  "YYYY-MM-DD"
// @Success  200  {array}   domain.SlotAvailability
// @Failure  400  {object}  ErrorResponse
// @Router   /restaurants/{id}/availability [get]
func handleAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		date, err := domain.ParseDate(c.Query("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		out, err := svcs.Query.Availability(c.Request.Context(), id, date)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "5")
	}
}

// handleCreateRestaurant godoc
// @Summary  Create restaurant
// @Tags     restaurants
// @Accept   json
// @Produce  json
// @Param    X-User-ID    header  int  true  "acting user"
// @Param    X-User-Role  header  string  true  "owner or admin"
// @Param    body  body  CreateRestaurantRequest  true  "restaurant"
// @Success  201  {object}  domain.Restaurant
// @Failure  403  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Router   /restaurants [post]
func handleCreateRestaurant(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRestaurantRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		out, err := svcs.Restaurants.CreateRestaurant(c.Request.Context(), principal(c), req.Name, req.Capacity)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// handleAddStaff godoc
// @Summary  Add staff member
// @Tags     restaurants
// @Accept   json
// @Param    id    path  int  true  "restaurant id"
// @Param    body  body  AddStaffRequest  true  "staff user"
// @Success  204
// @Failure  403  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /restaurants/{id}/staff [post]
func handleAddStaff(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddStaffRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := svcs.Restaurants.AddStaff(c.Request.Context(), principal(c), id, req.UserID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleAddDish godoc
// @Summary  Add dish to the menu
// @Tags     restaurants
// @Accept   json
// @Produce  json
// @Param    id    path  int  true  "restaurant id"
// @Param    body  body  AddDishRequest  true  "dish"
// @Success  201  {object}  domain.Dish
// @Failure  409  {object}  ErrorResponse
// @Router   /restaurants/{id}/dishes [post]
func handleAddDish(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddDishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		out, err := svcs.Restaurants.AddDish(c.Request.Context(), principal(c), id, req.Name, req.PriceCents)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// handleConfigureWindow godoc
// @Summary  Configure a weekday service window
// @Description  Replaces the weekday's window and regenerates its slots.
// @Tags     windows
// @Accept   json
// @Produce  json
// @Param    id       path  int  true  "restaurant id"
// @Param    weekday  path  int  true  "ISO weekday, 1 = Monday"
// @Param    body     body  ServiceWindowRequest  true  "window"
// @Success  200  {array}   domain.Slot
// @Failure  409  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Router   /restaurants/{id}/windows/{weekday} [put]
func handleConfigureWindow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		wd, ok := parseWeekday(c.Param("weekday"))
		if !ok {
			badRequest(c, "weekday must be in 1..7")
			return
		}
		var req ServiceWindowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := req.toDomain(id, wd)
		if err != nil {
			respondErr(c, err)
			return
		}
		out, err := svcs.Restaurants.ConfigureServiceWindow(c.Request.Context(), principal(c), w)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleRemoveWindow godoc
// @Summary  Remove a weekday service window
// @Tags     windows
// @Param    id       path  int  true  "restaurant id"
// @Param    weekday  path  int  true  "ISO weekday, 1 = Monday"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /restaurants/{id}/windows/{weekday} [delete]
func handleRemoveWindow(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		wd, ok := parseWeekday(c.Param("weekday"))
		if !ok {
			badRequest(c, "weekday must be in 1..7")
			return
		}
		if err := svcs.Restaurants.RemoveServiceWindow(c.Request.Context(), principal(c), id, wd); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleCreateSlot godoc
// @Summary  Create a single slot
// @Tags     slots
// @Accept   json
// @Produce  json
// @Param    id    path  int  true  "restaurant id"
// @Param    body  body  CreateSlotRequest  true  "slot"
// @Success  201  {object}  domain.Slot
// @Failure  409  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Router   /restaurants/{id}/slots [post]
func handleCreateSlot(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateSlotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		slot := domain.Slot{
			RestaurantID: id,
			Weekday:      domain.Weekday(req.Weekday),
			Start:        req.Start,
			End:          req.End,
		}
		out, err := svcs.Restaurants.CreateSlot(c.Request.Context(), principal(c), slot)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// handleListReviews godoc
// @Summary  Latest reviews
// @Tags     reviews
// @Produce  json
// @Param    id     path   int  true   "restaurant id"
// @Param    limit  query  int  false  "max reviews"
// @Success  200  {array}   domain.Review
// @Router   /restaurants/{id}/reviews [get]
func handleListReviews(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Reviews.List(c.Request.Context(), id, parseIntDefault(c.Query("limit"), 20))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeCachedJSON(c, out, "30")
	}
}

// handleCreateReview godoc
// @Summary  Review a restaurant
// @Tags     reviews
// @Accept   json
// @Produce  json
// @Param    id    path  int  true  "restaurant id"
// @Param    body  body  CreateReviewRequest  true  "review"
// @Success  201  {object}  domain.Review
// @Failure  422  {object}  ErrorResponse
// @Router   /restaurants/{id}/reviews [post]
func handleCreateReview(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		out, err := svcs.Reviews.Create(c.Request.Context(), principal(c), id, req.Rating, req.Comment)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}
