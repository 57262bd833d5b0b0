package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/dinego/internal/domain"
)

type RestaurantRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RestaurantRepo) With(db DB) *RestaurantRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RestaurantRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a restaurant and fills in its ID and creation time.
//
// Returns:
//   - error: repository.ErrConflict if the name is already taken.
func (r *RestaurantRepo) Create(ctx context.Context, rest *domain.Restaurant) error {
	const op = "postgres.RestaurantRepo.Create"

	db := r.handle()

	if err := db.QueryRow(ctx,
		`INSERT INTO restaurants(owner_id, name, capacity)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		rest.OwnerID, rest.Name, rest.Capacity,
	).Scan(&rest.ID, &rest.CreatedAt); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get retrieves a restaurant by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the restaurant does not exist.
func (r *RestaurantRepo) Get(ctx context.Context, id int64) (*domain.Restaurant, error) {
	const op = "postgres.RestaurantRepo.Get"

	db := r.handle()

	var rest domain.Restaurant
	if err := db.QueryRow(ctx,
		`SELECT id, owner_id, name, capacity, created_at
		 FROM restaurants WHERE id = $1`,
		id,
	).Scan(&rest.ID, &rest.OwnerID, &rest.Name, &rest.Capacity, &rest.CreatedAt); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &rest, nil
}

func (r *RestaurantRepo) AddStaff(ctx context.Context, restaurantID, userID int64) error {
	const op = "postgres.RestaurantRepo.AddStaff"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO restaurant_staff(restaurant_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		restaurantID, userID,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Staff lists the staff user IDs of a restaurant, ordered by ID.
func (r *RestaurantRepo) Staff(ctx context.Context, restaurantID int64) ([]int64, error) {
	const op = "postgres.RestaurantRepo.Staff"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT user_id FROM restaurant_staff
		 WHERE restaurant_id = $1
		 ORDER BY user_id`,
		restaurantID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return ids, nil
}

// IsStaff reports whether userID works at the restaurant.
func (r *RestaurantRepo) IsStaff(ctx context.Context, restaurantID, userID int64) (bool, error) {
	const op = "postgres.RestaurantRepo.IsStaff"

	db := r.handle()

	var ok bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM restaurant_staff
			WHERE restaurant_id = $1 AND user_id = $2
		 )`,
		restaurantID, userID,
	).Scan(&ok); err != nil {
		return false, wrapDBErr(op, err)
	}

	return ok, nil
}

func (r *RestaurantRepo) CreateDish(ctx context.Context, d *domain.Dish) error {
	const op = "postgres.RestaurantRepo.CreateDish"

	db := r.handle()

	if err := db.QueryRow(ctx,
		`INSERT INTO dishes(restaurant_id, name, price_cents)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		d.RestaurantID, d.Name, d.PriceCents,
	).Scan(&d.ID); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// DishesByIDs returns the dishes of restaurantID among ids. Unknown IDs and
// dishes of other restaurants are silently left out.
func (r *RestaurantRepo) DishesByIDs(ctx context.Context, restaurantID int64, ids []int64) ([]domain.Dish, error) {
	const op = "postgres.RestaurantRepo.DishesByIDs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, restaurant_id, name, price_cents
		 FROM dishes
		 WHERE restaurant_id = $1 AND id = ANY($2)
		 ORDER BY id`,
		restaurantID, ids,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	dishes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Dish, error) {
		var d domain.Dish
		err := row.Scan(&d.ID, &d.RestaurantID, &d.Name, &d.PriceCents)
		return d, err
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return dishes, nil
}
