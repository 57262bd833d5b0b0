package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/service"
)

// handleCreateOrder godoc
// @Summary  Place an order at a table
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    Idempotency-Key  header  string  false  "replay protection"
// @Param    body  body  CreateOrderRequest  true  "order"
// @Success  201  {object}  orders.View
// @Failure  404  {object}  ErrorResponse
// @Failure  422  {object}  ErrorResponse
// @Router   /orders [post]
func handleCreateOrder(svcs *service.Services, idem IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		p := principal(c)
		idempotent(c, idem, func(k string) string { return redisrepo.KeyIdemOrder(p.UserID, k) }, http.StatusCreated,
			func() (any, error) {
				return svcs.Orders.Create(c.Request.Context(), p, req.RestaurantID, req.TableCode, req.lines())
			})
	}
}

// handleGetOrder godoc
// @Summary  Get order with its next transitions
// @Tags     orders
// @Produce  json
// @Param    id  path  string  true  "order id"
// @Success  200  {object}  orders.View
// @Failure  404  {object}  ErrorResponse
// @Router   /orders/{id} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Orders.Get(c.Request.Context(), principal(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleAdvanceOrder godoc
// @Summary  Fire an order transition
// @Description  name is one of await_payment, prepare or complete.
// @Tags     orders
// @Produce  json
// @Param    id    path  string  true  "order id"
// @Param    name  path  string  true  "transition"
// @Success  200  {object}  orders.View
// @Failure  403  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /orders/{id}/transitions/{name} [post]
func handleAdvanceOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		out, err := svcs.Orders.Advance(c.Request.Context(), principal(c), id, c.Param("name"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
