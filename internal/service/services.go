package service

import (
	"log/slog"

	"github.com/kirinyoku/dinego/internal/notify"
	postgres "github.com/kirinyoku/dinego/internal/repository/postgres"
	redis "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/service/bookings"
	"github.com/kirinyoku/dinego/internal/service/orders"
	"github.com/kirinyoku/dinego/internal/service/query"
	"github.com/kirinyoku/dinego/internal/service/restaurants"
	"github.com/kirinyoku/dinego/internal/service/reviews"
	"github.com/kirinyoku/dinego/internal/uow"
)

type Services struct {
	Restaurants *restaurants.Service
	Bookings    *bookings.Service
	Orders      *orders.Service
	Reviews     *reviews.Service
	Query       *query.Service
}

type Config struct {
	Bookings   bookings.Config
	Query      query.Config
	MaxRetries int
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	limiter *redis.Limiter,
	sender notify.Sender,
	log *slog.Logger,
	cfg Config,
) *Services {
	u := uow.NewUoW(store, log, cfg.MaxRetries)

	return &Services{
		Restaurants: restaurants.New(restaurants.PostgresRepos(store), cache, u, log),
		Bookings:    bookings.New(bookings.PostgresRepos(store), cache, limiter, sender, u, log, cfg.Bookings),
		Orders:      orders.New(orders.PostgresRepos(store), sender, u, log),
		Reviews:     reviews.New(store, sender, u, log),
		Query:       query.New(store, cache, cfg.Query),
	}
}
