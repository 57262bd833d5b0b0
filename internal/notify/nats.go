package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type NATSConfig struct {
	URL     string
	Subject string
	// Stream captures "<Subject>.>". Publishes carrying an ID seen within
	// DuplicateWindow are dropped by the server.
	Stream          string
	DuplicateWindow time.Duration
	MaxAge          time.Duration
}

// NATSSender publishes each notification on "<subject>.<event type>" into a
// JetStream stream, using the notification ID as the message ID.
type NATSSender struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

func NewNATSSender(ctx context.Context, cfg NATSConfig) (*NATSSender, error) {
	conn, err := nats.Connect(cfg.URL, nats.Name("dinego-notify"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if _, err := js.CreateOrUpdateStream(ctx, streamConfig(cfg)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create/update stream %s: %w", cfg.Stream, err)
	}

	return &NATSSender{conn: conn, js: js, subject: cfg.Subject}, nil
}

func streamConfig(cfg NATSConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       cfg.Stream,
		Subjects:   []string{cfg.Subject + ".>"},
		MaxAge:     cfg.MaxAge,
		Duplicates: cfg.DuplicateWindow,
	}
}

func (s *NATSSender) Send(ctx context.Context, n Notification) error {
	const op = "notify.NATSSender.Send"

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	msg := nats.NewMsg(s.subject + "." + string(n.Event))
	msg.Data = b

	if _, err := s.js.PublishMsg(ctx, msg, jetstream.WithMsgID(n.ID.String())); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

func (s *NATSSender) Close() error {
	return s.conn.Drain()
}
