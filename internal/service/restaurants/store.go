package restaurants

import (
	"context"

	"github.com/kirinyoku/dinego/internal/domain"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
)

type RestaurantRepo interface {
	Create(ctx context.Context, rest *domain.Restaurant) error
	Get(ctx context.Context, id int64) (*domain.Restaurant, error)
	AddStaff(ctx context.Context, restaurantID, userID int64) error
	CreateDish(ctx context.Context, d *domain.Dish) error
}

// WindowRepo stores service windows and the slots generated from them.
// LockWeekday serializes writers of one restaurant weekday until the
// transaction ends.
type WindowRepo interface {
	LockWeekday(ctx context.Context, restaurantID int64, wd domain.Weekday) error
	UpsertWindow(ctx context.Context, w *domain.ServiceWindow) (int64, error)
	SoftDeleteWindow(ctx context.Context, restaurantID int64, wd domain.Weekday) (int64, error)
	SoftDeleteSlotsByWindow(ctx context.Context, windowID int64) (int64, error)
	LiveSlots(ctx context.Context, restaurantID int64, wd domain.Weekday) ([]domain.Slot, error)
	InsertSlots(ctx context.Context, slots []domain.Slot) error
}

// Repos hands out repositories bound to tx, or to the pool when tx is nil.
type Repos interface {
	Restaurants(tx postgresrepo.DB) RestaurantRepo
	Windows(tx postgresrepo.DB) WindowRepo
}

type Cache interface {
	InvalidateSlots(ctx context.Context, restaurantID int64, weekday int) error
	InvalidateMenu(ctx context.Context, restaurantID int64) error
}

type pgRepos struct {
	store *postgresrepo.Store
}

func PostgresRepos(store *postgresrepo.Store) Repos {
	return pgRepos{store: store}
}

func (r pgRepos) Restaurants(tx postgresrepo.DB) RestaurantRepo {
	return r.store.Restaurants().With(tx)
}

func (r pgRepos) Windows(tx postgresrepo.DB) WindowRepo {
	return r.store.Windows().With(tx)
}
