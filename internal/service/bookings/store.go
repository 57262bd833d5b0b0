package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/dinego/internal/admission"
	"github.com/kirinyoku/dinego/internal/domain"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
)

type BookingRepo interface {
	admission.Ledger
	LockPool(ctx context.Context, key string) error
	Insert(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (time.Time, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error)
}

type RestaurantRepo interface {
	Get(ctx context.Context, id int64) (*domain.Restaurant, error)
	Staff(ctx context.Context, restaurantID int64) ([]int64, error)
	IsStaff(ctx context.Context, restaurantID, userID int64) (bool, error)
}

type SlotRepo interface {
	GetSlot(ctx context.Context, id int64) (*domain.Slot, error)
}

// Repos hands out repositories bound to tx, or to the pool when tx is nil.
type Repos interface {
	Bookings(tx postgresrepo.DB) BookingRepo
	Restaurants(tx postgresrepo.DB) RestaurantRepo
	Slots(tx postgresrepo.DB) SlotRepo
}

// Cache is the part of the read cache a booking change invalidates.
type Cache interface {
	InvalidateAvailability(ctx context.Context, restaurantID int64, date time.Time) error
}

type pgRepos struct {
	store *postgresrepo.Store
}

// PostgresRepos serves Repos from store.
func PostgresRepos(store *postgresrepo.Store) Repos {
	return pgRepos{store: store}
}

func (r pgRepos) Bookings(tx postgresrepo.DB) BookingRepo {
	return r.store.Bookings().With(tx)
}

func (r pgRepos) Restaurants(tx postgresrepo.DB) RestaurantRepo {
	return r.store.Restaurants().With(tx)
}

func (r pgRepos) Slots(tx postgresrepo.DB) SlotRepo {
	return r.store.Windows().With(tx)
}
