package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/dinego/internal/config"
	"github.com/kirinyoku/dinego/internal/notify"
	"github.com/kirinyoku/dinego/internal/obs"
	"github.com/kirinyoku/dinego/internal/postgres"
	"github.com/kirinyoku/dinego/internal/redis"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/service"
	"github.com/kirinyoku/dinego/internal/service/bookings"
	"github.com/kirinyoku/dinego/internal/service/query"
	httpgin "github.com/kirinyoku/dinego/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *goredis.Client
	pubsub     *redisrepo.PubSub
	closers    []io.Closer
	shutdown   func(context.Context) error
	httpServer *http.Server
}

// initTracer is swapped in tests.
var initTracer = obs.InitTracer

// New wires every dependency. On failure whatever was already opened is
// closed again, the tracer included.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdown, err := initTracer(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	a := &App{
		cfg:      cfg,
		logger:   logger,
		shutdown: shutdown,
	}

	a.pool, err = postgres.New(ctx, postgres.Config{
		DSN:      cfg.Postgres.DSN(),
		MaxConns: cfg.Postgres.MaxConns,
		MinConns: cfg.Postgres.MinConns,
		AppName:  cfg.Telemetry.ServiceName,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	pool := a.pool

	if err := postgres.Migrate(ctx, pool); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	a.rdb, err = redis.New(ctx, redis.Config{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		PoolSize:  cfg.Redis.PoolSize,
		OpTimeout: cfg.Redis.OpTimeout,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	rdb := a.rdb

	sender, err := a.newSender(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize notifications: %w", err)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		a.close()
		return nil, err
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pool)
	cache := redisrepo.NewCache(rdb)
	limiter := redisrepo.NewLimiter(rdb, cfg.Booking.RateLimit, cfg.Booking.RateLimitWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL)

	// Initialize services
	services := service.NewServices(store, cache, limiter, sender, logger, service.Config{
		Bookings: bookings.Config{Location: loc},
		Query: query.Config{
			SlotsTTL:        cfg.Cache.SlotsTTL,
			AvailabilityTTL: cfg.Cache.AvailabilityTTL,
		},
		MaxRetries: cfg.Booking.MaxTxRetries,
	})

	router := httpgin.NewRouter(services, idempotencyStore, store, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

// newSender picks the notification transport named by NOTIFY_DRIVER.
func (a *App) newSender(ctx context.Context) (notify.Sender, error) {
	switch a.cfg.Notify.Driver {
	case "redis":
		a.pubsub = redisrepo.NewPubSub(a.rdb, redisrepo.NotificationsChannel)
		return notify.NewRedisSender(a.pubsub), nil
	case "amqp":
		s, err := notify.NewAMQPSender(a.cfg.Notify.AMQPURL, a.cfg.Notify.AMQPExchange)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case "nats":
		s, err := notify.NewNATSSender(ctx, notify.NATSConfig{
			URL:             a.cfg.Notify.NATSURL,
			Subject:         a.cfg.Notify.NATSSubject,
			Stream:          a.cfg.Notify.NATSStream,
			DuplicateWindow: a.cfg.Notify.NATSDuplicateWindow,
			MaxAge:          a.cfg.Notify.NATSMaxAge,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return notify.NewLogSender(a.logger), nil
	}
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Deliver notifications published on the redis channel
	if a.pubsub != nil {
		deliver := notify.Consume(notify.NewLogSender(a.logger))
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, a.logger, deliver)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("notification subscriber: %w", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close notifier", slog.Any("error", err))
		}
	}

	if a.rdb != nil {
		_ = a.rdb.Close()
	}

	if a.pool != nil {
		a.pool.Close()
	}

	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown", slog.Any("error", err))
		}
	}
}
