package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/dinego/internal/domain"
)

// QueryRepo serves the read-only listings behind the public catalogue.
type QueryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *QueryRepo) With(db DB) *QueryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *QueryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ListRestaurants lists restaurants by name.
//
// Parameters:
//   - ctx: request-scoped context for cancellation and timeouts.
//   - limit, offset: pagination parameters.
//
// Returns:
//   - []domain.Restaurant: the page, possibly empty.
func (r *QueryRepo) ListRestaurants(ctx context.Context, limit, offset int) ([]domain.Restaurant, error) {
	const op = "postgres.QueryRepo.ListRestaurants"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, owner_id, name, capacity, created_at
		 FROM restaurants
		 ORDER BY name
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Restaurant
	for rows.Next() {
		var rest domain.Restaurant
		if err := rows.Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Capacity, &rest.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, rest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// Menu lists the dishes of a restaurant by name.
func (r *QueryRepo) Menu(ctx context.Context, restaurantID int64) ([]domain.Dish, error) {
	const op = "postgres.QueryRepo.Menu"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, restaurant_id, name, price_cents
		 FROM dishes
		 WHERE restaurant_id = $1
		 ORDER BY name`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.Dish
	for rows.Next() {
		var d domain.Dish
		if err := rows.Scan(&d.ID, &d.RestaurantID, &d.Name, &d.PriceCents); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
