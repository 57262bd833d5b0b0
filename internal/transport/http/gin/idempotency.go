package httpgin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
)

// IdempotencyStore remembers the response of a write by client key.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (redisrepo.Claim, error)
	Complete(ctx context.Context, key string, payload []byte) error
	Release(ctx context.Context, key string) error
}

// idempotent runs fn once per Idempotency-Key header. A repeated request
// gets the stored response; a request racing the first one gets 409.
// Without a header or store fn simply runs.
func idempotent(
	c *gin.Context,
	store IdempotencyStore,
	storageKey func(clientKey string) string,
	status int,
	fn func() (any, error),
) {
	clientKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if store == nil || clientKey == "" {
		v, err := fn()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(status, v)
		return
	}

	ctx := c.Request.Context()
	key := storageKey(clientKey)
	c.Header("Idempotency-Key", clientKey)

	claim, err := store.Reserve(ctx, key)
	if err != nil {
		respondErr(c, err)
		return
	}
	if claim.Replay != nil {
		c.Data(status, "application/json; charset=utf-8", claim.Replay)
		return
	}
	if claim.InFlight() {
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress", Code: "idempotency_in_progress"})
		return
	}

	v, err := fn()
	if err != nil {
		_ = store.Release(ctx, key)
		respondErr(c, err)
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		_ = store.Release(ctx, key)
		respondErr(c, err)
		return
	}
	_ = store.Complete(ctx, key, b)

	c.Data(status, "application/json; charset=utf-8", b)
}
