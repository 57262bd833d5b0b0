// Package orders places table orders and walks them through their
// lifecycle.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
	"github.com/kirinyoku/dinego/internal/lifecycle"
	"github.com/kirinyoku/dinego/internal/notify"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	"github.com/kirinyoku/dinego/internal/uow"
)

var tracer = otel.Tracer("dinego/service/orders")

type Service struct {
	repos  Repos
	sender notify.Sender
	uow    *uow.UoW
	log    *slog.Logger
}

func New(repos Repos, sender notify.Sender, u *uow.UoW, log *slog.Logger) *Service {
	return &Service{
		repos:  repos,
		sender: sender,
		uow:    u,
		log:    log,
	}
}

// View is an order together with the actions that may fire next.
type View struct {
	domain.Order
	Next []domain.OrderAction `json:"next"`
}

func newView(o *domain.Order) *View {
	next := lifecycle.Order.Allowed(o.Status)
	if next == nil {
		next = []domain.OrderAction{}
	}
	return &View{Order: *o, Next: next}
}

// Create places an order for the acting principal at a table of
// restaurantID. The restaurant staff hears about it before it commits.
//
// Returns:
//   - error: *domain.ValidationError for an empty table code or bad lines.
//   - error: orders.ErrRestaurantNotFound, *orders.DishNotFoundError.
func (s *Service) Create(ctx context.Context, p domain.Principal, restaurantID int64, tableCode string, lines []domain.OrderLine) (*View, error) {
	const op = "service.orders.Create"

	ctx, span := tracer.Start(ctx, "orders.Create", trace.WithAttributes(
		attribute.Int64("restaurant.id", restaurantID),
		attribute.Int("lines", len(lines)),
	))
	defer span.End()

	if p.UserID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}

	tableCode = strings.TrimSpace(tableCode)
	if tableCode == "" {
		return nil, fmt.Errorf("%s: %w", op, &domain.ValidationError{Field: "table_code", Reason: "is empty"})
	}

	if err := validateLines(lines); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	order := &domain.Order{
		TableCode:    tableCode,
		Lines:        lines,
		BuyerID:      p.UserID,
		RestaurantID: restaurantID,
		Status:       lifecycle.Order.Initial(),
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		restaurants := s.repos.Restaurants(tx)

		if _, err := restaurants.Get(ctx, restaurantID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRestaurantNotFound
			}
			return err
		}

		ids := make([]int64, len(lines))
		for i, l := range lines {
			ids[i] = l.DishID
		}

		dishes, err := restaurants.DishesByIDs(ctx, restaurantID, ids)
		if err != nil {
			return err
		}
		if missing := missingDishes(ids, dishes); len(missing) > 0 {
			return &DishNotFoundError{RestaurantID: restaurantID, DishIDs: missing}
		}

		if err := s.repos.Orders(tx).Insert(ctx, order); err != nil {
			return err
		}

		staff, err := restaurants.Staff(ctx, restaurantID)
		if err != nil {
			return err
		}

		bus := eventbus.New()
		notify.Subscribe(bus, eventbus.OrderCreated, s.sender, staff...)
		return bus.Publish(ctx, eventbus.OrderCreated, order)
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.Int64("restaurant_id", restaurantID),
		slog.String("table", tableCode),
	)

	return newView(order), nil
}

// Advance fires the named transition on an order. Illegal moves leave the
// order untouched.
//
// Returns:
//   - error: *domain.ValidationError for an unknown transition name.
//   - error: orders.ErrOrderNotFound.
//   - error: *lifecycle.TransitionError when the order is in the wrong state.
//   - error: domain.ErrForbidden when p may not fire the transition.
func (s *Service) Advance(ctx context.Context, p domain.Principal, id uuid.UUID, transition string) (*View, error) {
	const op = "service.orders.Advance"

	ctx, span := tracer.Start(ctx, "orders.Advance", trace.WithAttributes(
		attribute.String("order.id", id.String()),
		attribute.String("transition", transition),
	))
	defer span.End()

	action, err := lifecycle.ParseOrderAction(transition)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var order *domain.Order

	err = s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		orders := s.repos.Orders(tx)

		o, err := orders.GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		restaurants := s.repos.Restaurants(tx)
		rest, err := restaurants.Get(ctx, o.RestaurantID)
		if err != nil {
			return err
		}
		staff, err := restaurants.Staff(ctx, rest.ID)
		if err != nil {
			return err
		}

		if !mayFire(p, action, o, rest, staff) {
			return domain.ErrForbidden
		}

		tr, err := lifecycle.Order.Fire(o.Status, action)
		if err != nil {
			return err
		}

		updatedAt, err := orders.UpdateStatus(ctx, o.ID, tr.From, tr.To)
		if err != nil {
			if errors.Is(err, repository.ErrStaleState) {
				return ErrConcurrentUpdate
			}
			return err
		}
		o.Status = tr.To
		o.UpdatedAt = updatedAt

		bus := eventbus.New()
		notify.Subscribe(bus, tr.Event, s.sender, recipients(tr.Event, o, staff)...)
		if err := bus.Publish(ctx, tr.Event, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order advanced",
		slog.String("order_id", order.ID.String()),
		slog.String("action", string(action)),
		slog.String("status", string(order.Status)),
	)

	return newView(order), nil
}

func (s *Service) Get(ctx context.Context, p domain.Principal, id uuid.UUID) (*View, error) {
	const op = "service.orders.Get"

	o, err := s.repos.Orders(nil).Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !p.Is(o.BuyerID) && !p.IsAdmin() {
		rest, err := s.repos.Restaurants(nil).Get(ctx, o.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		isStaff, err := s.repos.Restaurants(nil).IsStaff(ctx, rest.ID, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !p.Is(rest.OwnerID) && !isStaff {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
		}
	}

	return newView(o), nil
}

func validateLines(lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return &domain.ValidationError{Field: "lines", Reason: "order has no lines"}
	}

	seen := make(map[int64]bool, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return &domain.ValidationError{Field: "quantity", Reason: fmt.Sprintf("dish %d: %d is not positive", l.DishID, l.Quantity)}
		}
		if seen[l.DishID] {
			return &domain.ValidationError{Field: "lines", Reason: fmt.Sprintf("dish %d listed twice", l.DishID)}
		}
		seen[l.DishID] = true
	}

	return nil
}

// missingDishes returns the ids not present in found, sorted.
func missingDishes(ids []int64, found []domain.Dish) []int64 {
	have := make(map[int64]bool, len(found))
	for _, d := range found {
		have[d.ID] = true
	}

	var missing []int64
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	return missing
}

// mayFire gates transitions by role: the buyer may pay, only the
// restaurant side moves the order through the kitchen.
func mayFire(p domain.Principal, action domain.OrderAction, o *domain.Order, rest *domain.Restaurant, staff []int64) bool {
	if p.IsAdmin() || p.Is(rest.OwnerID) || slices.ContainsFunc(staff, p.Is) {
		return true
	}
	return action == domain.OrderAwaitPayment && p.Is(o.BuyerID)
}

// recipients picks who hears about an order transition: always the buyer,
// and the staff too once the order is paid.
func recipients(t eventbus.Type, o *domain.Order, staff []int64) []int64 {
	out := []int64{o.BuyerID}
	if t == eventbus.OrderPaid {
		out = append(out, staff...)
	}
	return out
}
