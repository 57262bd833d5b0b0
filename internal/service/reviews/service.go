package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
	"github.com/kirinyoku/dinego/internal/notify"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	"github.com/kirinyoku/dinego/internal/uow"
)

const maxCommentLen = 2000

type Service struct {
	store  *postgresrepo.Store
	sender notify.Sender
	uow    *uow.UoW
	log    *slog.Logger
}

func New(store *postgresrepo.Store, sender notify.Sender, u *uow.UoW, log *slog.Logger) *Service {
	return &Service{store: store, sender: sender, uow: u, log: log}
}

// Create stores a review and tells the owner and staff of the restaurant.
func (s *Service) Create(ctx context.Context, p domain.Principal, restaurantID int64, rating int, comment string) (*domain.Review, error) {
	const op = "service.reviews.Create"

	if p.UserID <= 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrForbidden)
	}

	rv := &domain.Review{
		RestaurantID: restaurantID,
		AuthorID:     p.UserID,
		Rating:       rating,
		Comment:      strings.TrimSpace(comment),
	}
	if err := validate(rv); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, _ func(uow.AfterCommit)) error {
		restaurants := s.store.Restaurants().With(tx)

		rest, err := restaurants.Get(ctx, restaurantID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRestaurantNotFound
			}
			return err
		}

		if err := s.store.Reviews().With(tx).Insert(ctx, rv); err != nil {
			return err
		}

		staff, err := restaurants.Staff(ctx, restaurantID)
		if err != nil {
			return err
		}

		bus := eventbus.New()
		notify.Subscribe(bus, eventbus.ReviewCreated, s.sender, append([]int64{rest.OwnerID}, staff...)...)
		return bus.Publish(ctx, eventbus.ReviewCreated, rv)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("review created",
		slog.String("review_id", rv.ID.String()),
		slog.Int64("restaurant_id", restaurantID),
		slog.Int("rating", rating),
	)

	return rv, nil
}

func (s *Service) List(ctx context.Context, restaurantID int64, limit int) ([]domain.Review, error) {
	const op = "service.reviews.List"

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	out, err := s.store.Reviews().ListByRestaurant(ctx, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func validate(rv *domain.Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return &domain.ValidationError{Field: "rating", Reason: fmt.Sprintf("%d is not in 1..5", rv.Rating)}
	}
	if len(rv.Comment) > maxCommentLen {
		return &domain.ValidationError{Field: "comment", Reason: fmt.Sprintf("longer than %d bytes", maxCommentLen)}
	}
	return nil
}
