// Package bookings admits, cancels and lists table bookings.
package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kirinyoku/dinego/internal/admission"
	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
	"github.com/kirinyoku/dinego/internal/lifecycle"
	"github.com/kirinyoku/dinego/internal/notify"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/uow"
)

var tracer = otel.Tracer("dinego/service/bookings")

type Config struct {
	// Location is where "today" and "now" are evaluated for sitting times.
	Location *time.Location
}

type Service struct {
	repos   Repos
	cache   Cache
	limiter *redisrepo.Limiter
	sender  notify.Sender
	uow     *uow.UoW
	locks   *admission.Locks
	log     *slog.Logger
	cfg     Config
	now     func() time.Time
}

func New(
	repos Repos,
	cache Cache,
	limiter *redisrepo.Limiter,
	sender notify.Sender,
	u *uow.UoW,
	log *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Service{
		repos:   repos,
		cache:   cache,
		limiter: limiter,
		sender:  sender,
		uow:     u,
		locks:   admission.NewLocks(),
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

type CreateRequest struct {
	RestaurantID int64
	SlotID       int64
	Date         time.Time
	Seats        int
}

// Create books seats for the acting customer. Requests for the same
// restaurant, slot and date are serialized both in process and across
// processes, so the capacity check and the insert cannot interleave.
//
// Returns:
//   - *domain.Booking: the active booking.
//   - error: bookings.ErrRestaurantNotFound, bookings.ErrSlotNotFound.
//   - error: admission errors (*admission.InvalidWeekDayError,
//     *admission.InvalidRestaurantError, *admission.DuplicateActiveBookingError,
//     *admission.InvalidSittingTimeError, *admission.CapacityExceededError).
//   - error: *bookings.RateLimitedError when the customer books too often.
//   - error: *eventbus.ListenerError when a notification fails; nothing is stored.
func (s *Service) Create(ctx context.Context, p domain.Principal, req CreateRequest) (*domain.Booking, error) {
	const op = "service.bookings.Create"

	ctx, span := tracer.Start(ctx, "bookings.Create", trace.WithAttributes(
		attribute.Int64("restaurant.id", req.RestaurantID),
		attribute.Int64("slot.id", req.SlotID),
		attribute.Int("seats", req.Seats),
	))
	defer span.End()

	if p.UserID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}

	if s.limiter != nil {
		d, err := s.limiter.Allow(ctx, redisrepo.KeyRateLimit("bookings", p.UserID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !d.Allowed {
			return nil, fmt.Errorf("%s: %w", op, &RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	date := domain.Date(req.Date)
	key := admission.KeyFor(req.RestaurantID, req.SlotID, date)

	unlock := s.locks.Lock(key)
	defer unlock()

	var booking *domain.Booking

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		bookings := s.repos.Bookings(tx)

		if err := bookings.LockPool(ctx, key.String()); err != nil {
			return err
		}

		rest, err := s.repos.Restaurants(tx).Get(ctx, req.RestaurantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRestaurantNotFound
			}
			return err
		}

		slot, err := s.repos.Slots(tx).GetSlot(ctx, req.SlotID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		if slot.Deleted {
			return ErrSlotNotFound
		}

		if err := admission.Check(ctx, admission.Request{
			CustomerID: p.UserID,
			Restaurant: *rest,
			Slot:       *slot,
			Date:       date,
			Seats:      req.Seats,
			Now:        s.now(),
			Location:   s.cfg.Location,
		}, bookings); err != nil {
			return err
		}

		b := &domain.Booking{
			Date:         date,
			Seats:        req.Seats,
			SlotID:       slot.ID,
			CustomerID:   p.UserID,
			RestaurantID: rest.ID,
			Status:       lifecycle.Booking.Initial(),
		}
		if err := bookings.Insert(ctx, b); err != nil {
			return err
		}

		bus := eventbus.New()
		notify.Subscribe(bus, eventbus.BookingCreated, s.sender, b.CustomerID, rest.OwnerID)
		if err := bus.Publish(ctx, eventbus.BookingCreated, b); err != nil {
			return err
		}

		booking = b

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateAvailability(ctx, rest.ID, date)
		})
		return nil
	})
	if err != nil {
		if !isRejection(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "create booking")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	span.SetAttributes(attribute.String("booking.id", booking.ID.String()))
	s.log.Info("booking created",
		slog.String("booking_id", booking.ID.String()),
		slog.Int64("restaurant_id", booking.RestaurantID),
		slog.Int64("slot_id", booking.SlotID),
		slog.String("date", date.Format(time.DateOnly)),
		slog.Int("seats", booking.Seats),
	)

	return booking, nil
}

// Cancel moves an active booking to cancelled. The customer, the owner and
// the staff of the restaurant are notified before the change commits.
//
// Returns:
//   - error: bookings.ErrBookingNotFound if there is no such live booking.
//   - error: *lifecycle.TransitionError if the booking is already cancelled.
func (s *Service) Cancel(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error) {
	const op = "service.bookings.Cancel"

	ctx, span := tracer.Start(ctx, "bookings.Cancel", trace.WithAttributes(
		attribute.String("booking.id", id.String()),
	))
	defer span.End()

	var booking *domain.Booking

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		bookings := s.repos.Bookings(tx)

		b, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if b.Deleted {
			return ErrBookingNotFound
		}

		restaurants := s.repos.Restaurants(tx)
		rest, err := restaurants.Get(ctx, b.RestaurantID)
		if err != nil {
			return err
		}

		staff, err := restaurants.Staff(ctx, rest.ID)
		if err != nil {
			return err
		}

		if !canAct(p, b, rest, staff) {
			return domain.ErrForbidden
		}

		tr, err := lifecycle.Booking.Fire(b.Status, domain.BookingCancel)
		if err != nil {
			return err
		}

		updatedAt, err := bookings.UpdateStatus(ctx, b.ID, tr.From, tr.To)
		if err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return ErrConcurrentUpdate
			}
			return err
		}
		b.Status = tr.To
		b.UpdatedAt = updatedAt

		bus := eventbus.New()
		recipients := append([]int64{b.CustomerID, rest.OwnerID}, staff...)
		notify.Subscribe(bus, tr.Event, s.sender, recipients...)
		if err := bus.Publish(ctx, tr.Event, b); err != nil {
			return err
		}

		booking = b

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateAvailability(ctx, b.RestaurantID, b.Date)
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("booking cancelled",
		slog.String("booking_id", booking.ID.String()),
		slog.Int64("by", p.UserID),
	)

	return booking, nil
}

// Delete hides a booking from listings and frees its seats if it was still
// active. The status is left as it was, so a cancelled booking stays
// cancelled.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id uuid.UUID) error {
	const op = "service.bookings.Delete"

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		bookings := s.repos.Bookings(tx)

		b, err := bookings.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		rest, err := s.repos.Restaurants(tx).Get(ctx, b.RestaurantID)
		if err != nil {
			return err
		}
		if !p.IsAdmin() && !p.Is(rest.OwnerID) {
			return domain.ErrForbidden
		}

		if err := bookings.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateAvailability(ctx, b.RestaurantID, b.Date)
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*domain.Booking, error) {
	const op = "service.bookings.Get"

	b, err := s.repos.Bookings(nil).Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if b.Deleted && !p.IsAdmin() {
		return nil, fmt.Errorf("%s: %w", op, ErrBookingNotFound)
	}

	if !p.Is(b.CustomerID) && !p.IsAdmin() {
		rest, err := s.repos.Restaurants(nil).Get(ctx, b.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		staff, err := s.repos.Restaurants(nil).IsStaff(ctx, rest.ID, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !p.Is(rest.OwnerID) && !staff {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}

	return b, nil
}

// ListByCustomer returns the principal's own live bookings.
func (s *Service) ListByCustomer(ctx context.Context, p domain.Principal, limit, offset int) ([]domain.Booking, error) {
	const op = "service.bookings.ListByCustomer"

	limit, offset = page(limit, offset)

	out, err := s.repos.Bookings(nil).ListByCustomer(ctx, p.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// canAct reports whether p may cancel b: its customer, the owner, staff of
// the restaurant or an admin.
func canAct(p domain.Principal, b *domain.Booking, rest *domain.Restaurant, staff []int64) bool {
	if p.IsAdmin() || p.Is(b.CustomerID) || p.Is(rest.OwnerID) {
		return true
	}
	for _, id := range staff {
		if p.Is(id) {
			return true
		}
	}
	return false
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, admission.ErrRejected) ||
		errors.Is(err, ErrRateLimited)
}

const (
	defaultPage = 50
	maxPage     = 200
)

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPage
	}
	if limit > maxPage {
		limit = maxPage
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
