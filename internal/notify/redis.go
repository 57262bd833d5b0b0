package notify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Publisher is the slice of a pub/sub channel the redis sender needs.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// RedisSender publishes JSON notifications on a redis channel; a
// subscriber built with Consume performs the final delivery.
type RedisSender struct {
	pub Publisher
}

func NewRedisSender(pub Publisher) *RedisSender {
	return &RedisSender{pub: pub}
}

func (s *RedisSender) Send(ctx context.Context, n Notification) error {
	const op = "notify.RedisSender.Send"

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := s.pub.Publish(ctx, b); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Consume decodes a published notification and passes it to next.
func Consume(next Sender) func(ctx context.Context, payload []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var n Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			return fmt.Errorf("notify.Consume:%w", err)
		}
		return next.Send(ctx, n)
	}
}
