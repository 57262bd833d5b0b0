package redis

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	pendingMark = []byte("PENDING")
	resultMark  = []byte("RES:")
)

// Claim is the outcome of reserving an idempotency key.
type Claim struct {
	// Owner is true when this caller reserved the key and must Complete or
	// Release it.
	Owner bool
	// Replay holds the stored response of an earlier completed request.
	Replay []byte
}

// InFlight reports that another request holds the key and has not finished.
func (c Claim) InFlight() bool {
	return !c.Owner && c.Replay == nil
}

// IdempotencyStore remembers responses of write requests by client key.
type IdempotencyStore struct {
	rdb     redis.Cmdable
	ttl     time.Duration
	lockTTL time.Duration
}

func NewIdempotencyStore(rdb redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl, lockTTL: 30 * time.Second}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (Claim, error) {
	ok, err := s.rdb.SetNX(ctx, key, pendingMark, s.lockTTL).Result()
	if err != nil {
		return Claim{}, err
	}
	if ok {
		return Claim{Owner: true}, nil
	}

	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		// Expired between SETNX and GET; let the caller retry.
		return Claim{}, nil
	}
	if err != nil {
		return Claim{}, err
	}

	if rest, found := bytes.CutPrefix(v, resultMark); found {
		return Claim{Replay: rest}, nil
	}

	return Claim{}, nil
}

// Complete stores payload as the response for key.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, payload []byte) error {
	v := make([]byte, 0, len(resultMark)+len(payload))
	v = append(v, resultMark...)
	v = append(v, payload...)
	return s.rdb.Set(ctx, key, v, s.ttl).Err()
}

// Release forgets a reservation so a failed request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
