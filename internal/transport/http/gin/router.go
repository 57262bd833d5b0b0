package httpgin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	svcs *service.Services,
	idem IdempotencyStore,
	health Pinger,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), TracingMiddleware(), LoggingMiddleware(logger), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", handleReady(health))

	// Public catalogue
	r.GET("/restaurants", handleListRestaurants(svcs))
	r.GET("/restaurants/:id", handleGetRestaurant(svcs))
	r.GET("/restaurants/:id/menu", handleMenu(svcs))
	r.GET("/restaurants/:id/slots", handleListSlots(svcs))
	r.GET("/restaurants/:id/availability", handleAvailability(svcs))
	r.GET("/restaurants/:id/reviews", handleListReviews(svcs))

	api := r.Group("/", PrincipalMiddleware())
	{
		manage := api.Group("/", RequireRole(domain.RoleOwner))
		manage.POST("/restaurants", handleCreateRestaurant(svcs))
		manage.POST("/restaurants/:id/staff", handleAddStaff(svcs))
		manage.POST("/restaurants/:id/dishes", handleAddDish(svcs))
		manage.PUT("/restaurants/:id/windows/:weekday", handleConfigureWindow(svcs))
		manage.DELETE("/restaurants/:id/windows/:weekday", handleRemoveWindow(svcs))
		manage.POST("/restaurants/:id/slots", handleCreateSlot(svcs))
		manage.DELETE("/bookings/:id", handleDeleteBooking(svcs))

		api.POST("/restaurants/:id/reviews", handleCreateReview(svcs))

		api.POST("/bookings", handleCreateBooking(svcs, idem))
		api.GET("/bookings", handleListBookings(svcs))
		api.GET("/bookings/:id", handleGetBooking(svcs))
		api.POST("/bookings/:id/cancel", handleCancelBooking(svcs))

		api.POST("/orders", handleCreateOrder(svcs, idem))
		api.GET("/orders/:id", handleGetOrder(svcs))
		api.POST("/orders/:id/transitions/:name", handleAdvanceOrder(svcs))
	}

	return r
}

// @Summary  Readiness
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  ErrorResponse
// @Router   /readyz [get]
func handleReady(health Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "database unavailable", Code: "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseWeekday(s string) (domain.Weekday, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	wd := domain.Weekday(v)
	return wd, wd.Valid()
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
