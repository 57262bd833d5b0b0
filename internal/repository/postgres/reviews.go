package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/dinego/internal/domain"
)

type ReviewRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *ReviewRepo) With(db DB) *ReviewRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *ReviewRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *ReviewRepo) Insert(ctx context.Context, rv *domain.Review) error {
	const op = "postgres.ReviewRepo.Insert"

	db := r.handle()

	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}

	if err := db.QueryRow(ctx,
		`INSERT INTO reviews(id, restaurant_id, author_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		rv.ID, rv.RestaurantID, rv.AuthorID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// ListByRestaurant returns the newest reviews first.
func (r *ReviewRepo) ListByRestaurant(ctx context.Context, restaurantID int64, limit int) ([]domain.Review, error) {
	const op = "postgres.ReviewRepo.ListByRestaurant"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, restaurant_id, author_id, rating, comment, created_at
		 FROM reviews
		 WHERE restaurant_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		restaurantID, limit,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Review, error) {
		var rv domain.Review
		err := row.Scan(&rv.ID, &rv.RestaurantID, &rv.AuthorID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
		return rv, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return reviews, nil
}
