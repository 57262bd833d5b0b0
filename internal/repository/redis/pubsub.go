package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// PubSub fans serialized notifications out over one redis channel.
type PubSub struct {
	rdb     *redis.Client
	channel string
}

func NewPubSub(rdb *redis.Client, channel string) *PubSub {
	return &PubSub{rdb: rdb, channel: channel}
}

func (p *PubSub) Publish(ctx context.Context, payload []byte) error {
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}

// Subscribe delivers every message to handle until ctx is done. Handler
// errors are logged and do not stop the subscription.
func (p *PubSub) Subscribe(ctx context.Context, log *slog.Logger, handle func(ctx context.Context, payload []byte) error) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := handle(ctx, []byte(msg.Payload)); err != nil {
				log.Warn("notification handler failed",
					slog.String("channel", p.channel),
					slog.Any("err", err),
				)
			}
		}
	}
}
