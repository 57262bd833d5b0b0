package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/dinego/internal/domain"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
)

type OrderRepo interface {
	Insert(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (time.Time, error)
}

type RestaurantRepo interface {
	Get(ctx context.Context, id int64) (*domain.Restaurant, error)
	Staff(ctx context.Context, restaurantID int64) ([]int64, error)
	IsStaff(ctx context.Context, restaurantID, userID int64) (bool, error)
	DishesByIDs(ctx context.Context, restaurantID int64, ids []int64) ([]domain.Dish, error)
}

// Repos hands out repositories bound to tx, or to the pool when tx is nil.
type Repos interface {
	Orders(tx postgresrepo.DB) OrderRepo
	Restaurants(tx postgresrepo.DB) RestaurantRepo
}

type pgRepos struct {
	store *postgresrepo.Store
}

func PostgresRepos(store *postgresrepo.Store) Repos {
	return pgRepos{store: store}
}

func (r pgRepos) Orders(tx postgresrepo.DB) OrderRepo {
	return r.store.Orders().With(tx)
}

func (r pgRepos) Restaurants(tx postgresrepo.DB) RestaurantRepo {
	return r.store.Restaurants().With(tx)
}
