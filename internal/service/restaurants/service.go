// Package restaurants manages restaurants, their staff, menu and the slot
// grid generated from weekly service windows.
package restaurants

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	"github.com/kirinyoku/dinego/internal/slots"
	"github.com/kirinyoku/dinego/internal/uow"
)

var tracer = otel.Tracer("dinego/service/restaurants")

type Service struct {
	repos Repos
	cache Cache
	uow   *uow.UoW
	log   *slog.Logger
}

func New(repos Repos, cache Cache, u *uow.UoW, log *slog.Logger) *Service {
	return &Service{
		repos: repos,
		cache: cache,
		uow:   u,
		log:   log,
	}
}

// CreateRestaurant registers a restaurant owned by the acting principal.
//
// Returns:
//   - error: domain.ErrForbidden unless p is an owner or admin.
//   - error: restaurants.ErrRestaurantConflict if the name is taken.
func (s *Service) CreateRestaurant(ctx context.Context, p domain.Principal, name string, capacity int) (*domain.Restaurant, error) {
	const op = "service.restaurants.CreateRestaurant"

	if p.Role != domain.RoleOwner && !p.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "name", Reason: "is empty"})
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "capacity", Reason: fmt.Sprintf("%d is not positive", capacity)})
	}

	rest := &domain.Restaurant{OwnerID: p.UserID, Name: name, Capacity: capacity}
	if err := s.repos.Restaurants(nil).Create(ctx, rest); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, ErrRestaurantConflict)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("restaurant created",
		slog.Int64("restaurant_id", rest.ID),
		slog.Int64("owner_id", rest.OwnerID),
	)

	return rest, nil
}

func (s *Service) AddStaff(ctx context.Context, p domain.Principal, restaurantID, userID int64) error {
	const op = "service.restaurants.AddStaff"

	if userID <= 0 {
		return fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "user_id", Reason: "must be positive"})
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		if _, err := s.authorize(ctx, tx, p, restaurantID); err != nil {
			return err
		}
		return s.repos.Restaurants(tx).AddStaff(ctx, restaurantID, userID)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) AddDish(ctx context.Context, p domain.Principal, restaurantID int64, name string, priceCents int) (*domain.Dish, error) {
	const op = "service.restaurants.AddDish"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "name", Reason: "is empty"})
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "price_cents", Reason: "is negative"})
	}

	dish := &domain.Dish{RestaurantID: restaurantID, Name: name, PriceCents: priceCents}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.authorize(ctx, tx, p, restaurantID); err != nil {
			return err
		}

		if err := s.repos.Restaurants(tx).CreateDish(ctx, dish); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrDishConflict
			}
			return err
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateMenu(ctx, restaurantID)
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dish, nil
}

// ConfigureServiceWindow stores w as the restaurant's window for its weekday
// and regenerates the weekday's slots from it. Slots of the replaced window
// are retired; slots added by hand stay and take part in the overlap check.
// Nothing is written when any generated slot conflicts.
//
// Returns:
//   - []domain.Slot: the new slots, launch first, by start time.
//   - error: *domain.ValidationError for a malformed window.
//   - error: *slots.OverlapError naming the first conflicting range.
func (s *Service) ConfigureServiceWindow(ctx context.Context, p domain.Principal, w domain.ServiceWindow) ([]domain.Slot, error) {
	const op = "service.restaurants.ConfigureServiceWindow"

	ctx, span := tracer.Start(ctx, "restaurants.ConfigureServiceWindow", trace.WithAttributes(
		attribute.Int64("restaurant.id", w.RestaurantID),
		attribute.Int("weekday", int(w.Weekday)),
	))
	defer span.End()

	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var created []domain.Slot

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.authorize(ctx, tx, p, w.RestaurantID); err != nil {
			return err
		}

		windows := s.repos.Windows(tx)

		if err := windows.LockWeekday(ctx, w.RestaurantID, w.Weekday); err != nil {
			return err
		}

		previous, err := windows.UpsertWindow(ctx, &w)
		if err != nil {
			return err
		}
		if previous != 0 {
			if _, err := windows.SoftDeleteSlotsByWindow(ctx, previous); err != nil {
				return err
			}
		}

		existing, err := windows.LiveSlots(ctx, w.RestaurantID, w.Weekday)
		if err != nil {
			return err
		}

		generated, err := slots.Generate(w, existing)
		if err != nil {
			return err
		}

		if err := windows.InsertSlots(ctx, generated); err != nil {
			return err
		}
		created = generated

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateSlots(ctx, w.RestaurantID, int(w.Weekday))
		})
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("service window configured",
		slog.Int64("restaurant_id", w.RestaurantID),
		slog.Int64("window_id", w.ID),
		slog.String("weekday", w.Weekday.String()),
		slog.Int("slots", len(created)),
	)

	return created, nil
}

// RemoveServiceWindow retires a weekday's window together with its slots.
// Bookings keep pointing at the retired slots.
func (s *Service) RemoveServiceWindow(ctx context.Context, p domain.Principal, restaurantID int64, wd domain.Weekday) error {
	const op = "service.restaurants.RemoveServiceWindow"

	if !wd.Valid() {
		return fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "weekday", Reason: fmt.Sprintf("%d is not in 1..7", int(wd))})
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.authorize(ctx, tx, p, restaurantID); err != nil {
			return err
		}

		windows := s.repos.Windows(tx)

		if err := windows.LockWeekday(ctx, restaurantID, wd); err != nil {
			return err
		}

		id, err := windows.SoftDeleteWindow(ctx, restaurantID, wd)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWindowNotFound
			}
			return err
		}

		if _, err := windows.SoftDeleteSlotsByWindow(ctx, id); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateSlots(ctx, restaurantID, int(wd))
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateSlot adds a single slot outside any service window. It is held to
// the same overlap rule as generated slots.
func (s *Service) CreateSlot(ctx context.Context, p domain.Principal, slot domain.Slot) (*domain.Slot, error) {
	const op = "service.restaurants.CreateSlot"

	slot.ID = 0
	slot.WindowID = 0
	slot.Deleted = false

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		if _, err := s.authorize(ctx, tx, p, slot.RestaurantID); err != nil {
			return err
		}

		windows := s.repos.Windows(tx)

		if err := windows.LockWeekday(ctx, slot.RestaurantID, slot.Weekday); err != nil {
			return err
		}

		existing, err := windows.LiveSlots(ctx, slot.RestaurantID, slot.Weekday)
		if err != nil {
			return err
		}

		if err := slots.Check(slot, existing); err != nil {
			return err
		}

		batch := []domain.Slot{slot}
		if err := windows.InsertSlots(ctx, batch); err != nil {
			return err
		}
		slot = batch[0]

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateSlots(ctx, slot.RestaurantID, int(slot.Weekday))
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &slot, nil
}

// authorize loads the restaurant and checks that p owns it.
func (s *Service) authorize(ctx context.Context, tx postgresrepo.DB, p domain.Principal, restaurantID int64) (*domain.Restaurant, error) {
	rest, err := s.repos.Restaurants(tx).Get(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !CanManage(p, rest) {
		return nil, domain.ErrForbidden
	}

	return rest, nil
}

// CanManage reports whether p may change rest's configuration.
func CanManage(p domain.Principal, rest *domain.Restaurant) bool {
	return p.IsAdmin() || p.Is(rest.OwnerID)
}
