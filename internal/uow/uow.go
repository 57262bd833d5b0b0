package uow

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/dinego/internal/repository/postgres"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// TxRunner opens transactions; *postgres.Store is the production one.
type TxRunner interface {
	RunTx(ctx context.Context, opts *pgx.TxOptions, fn func(ctx context.Context, tx postgres.DB) error) error
}

// UoW represents a unit of work. A transaction that loses a serialization
// race is run again from scratch, up to MaxRetries extra times.
type UoW struct {
	store      TxRunner
	log        *slog.Logger
	MaxRetries int
	Backoff    time.Duration
}

func NewUoW(store TxRunner, log *slog.Logger, maxRetries int) *UoW {
	return &UoW{
		store:      store,
		log:        log,
		MaxRetries: maxRetries,
		Backoff:    10 * time.Millisecond,
	}
}

// Do runs fn inside a serializable transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// DoWithOpts is Do with explicit transaction options. Hooks registered by a
// failed attempt are discarded; fn must not have side effects outside tx
// other than through hooks.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var hooks []AfterCommit

	attempt := func() error {
		hooks = hooks[:0]
		return u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
	}

	err := attempt()
	for try := 1; err != nil && postgres.IsRetryable(err) && try <= u.MaxRetries; try++ {
		u.log.Warn("retrying transaction",
			slog.Int("attempt", try),
			slog.Any("err", err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(u.Backoff * time.Duration(try)):
		}

		err = attempt()
	}
	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(ctx)
	}

	return nil
}
