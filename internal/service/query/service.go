// Package query serves cached read models: restaurants, menus, slot grids
// and per-date availability.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
)

type Config struct {
	SlotsTTL        time.Duration
	AvailabilityTTL time.Duration
	MenuTTL         time.Duration
	DefaultPage     int
	MaxPage         int
}

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.SlotsTTL <= 0 {
		cfg.SlotsTTL = 5 * time.Minute
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	if cfg.MenuTTL <= 0 {
		cfg.MenuTTL = time.Minute
	}

	if cfg.DefaultPage <= 0 {
		cfg.DefaultPage = 50
	}

	if cfg.MaxPage <= 0 {
		cfg.MaxPage = 200
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

func (s *Service) ListRestaurants(ctx context.Context, limit, offset int) ([]domain.Restaurant, error) {
	const op = "service.query.ListRestaurants"

	if limit <= 0 {
		limit = s.cfg.DefaultPage
	}

	if limit > s.cfg.MaxPage {
		limit = s.cfg.MaxPage
	}

	out, err := s.store.Query().ListRestaurants(ctx, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Service) GetRestaurant(ctx context.Context, id int64) (*domain.Restaurant, error) {
	const op = "service.query.GetRestaurant"

	rest, err := s.store.Restaurants().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrRestaurantNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rest, nil
}

// Menu lists a restaurant's dishes, cached until a dish is added.
func (s *Service) Menu(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	const op = "service.query.Menu"

	dishes, err := redisrepo.Fetch(ctx, s.cache, redisrepo.KeyMenu(restaurantID), s.cfg.MenuTTL,
		func(ctx context.Context) ([]domain.Dish, error) {
			return s.store.Query().Menu(ctx, restaurantID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dishes, nil
}

// ListSlots returns the live slots of one weekday by start time.
//
// Parameters:
//   - ctx: request-scoped context.
//   - restaurantID: restaurant to list.
//   - wd: ISO weekday.
//
// Returns:
//   - []domain.Slot: possibly empty when the weekday is not configured.
//   - error: query.ErrRestaurantNotFound if the restaurant does not exist.
func (s *Service) ListSlots(ctx context.Context, restaurantID int64, wd domain.Weekday) ([]domain.Slot, error) {
	const op = "service.query.ListSlots"

	if !wd.Valid() {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "weekday", Reason: fmt.Sprintf("%d is not in 1..7", int(wd))})
	}

	slots, err := redisrepo.Fetch(ctx, s.cache, redisrepo.KeySlots(restaurantID, int(wd)), s.cfg.SlotsTTL,
		func(ctx context.Context) ([]domain.Slot, error) {
			if _, err := s.store.Restaurants().Get(ctx, restaurantID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrRestaurantNotFound
				}
				return nil, err
			}

			out, err := s.store.Windows().LiveSlots(ctx, restaurantID, wd)
			if out == nil && err == nil {
				out = []domain.Slot{}
			}
			return out, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slots, nil
}

// Availability reports capacity, booked and remaining seats for every live
// slot on date.
func (s *Service) Availability(ctx context.Context, restaurantID int64, date time.Time) ([]domain.SlotAvailability, error) {
	const op = "service.query.Availability"

	date = domain.Date(date)

	out, err := redisrepo.Fetch(ctx, s.cache, redisrepo.KeyAvailability(restaurantID, date), s.cfg.AvailabilityTTL,
		func(ctx context.Context) ([]domain.SlotAvailability, error) {
			rest, err := s.store.Restaurants().Get(ctx, restaurantID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrRestaurantNotFound
				}
				return nil, err
			}

			slots, err := s.store.Windows().LiveSlots(ctx, restaurantID, domain.WeekdayOf(date))
			if err != nil {
				return nil, err
			}

			booked, err := s.store.Bookings().BookedSeatsByDate(ctx, restaurantID, date)
			if err != nil {
				return nil, err
			}

			return availability(rest.Capacity, slots, booked), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// availability joins slots with their booked seats. Overbooked pools, which
// only arise after a capacity cut, report zero remaining.
func availability(capacity int, slots []domain.Slot, booked map[int64]int) []domain.SlotAvailability {
	out := make([]domain.SlotAvailability, 0, len(slots))
	for _, sl := range slots {
		b := booked[sl.ID]
		out = append(out, domain.SlotAvailability{
			Slot:      sl,
			Capacity:  capacity,
			Booked:    b,
			Remaining: max(capacity-b, 0),
		})
	}
	return out
}
