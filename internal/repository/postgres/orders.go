package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/repository"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Insert stores the order header and its lines. Run it inside a transaction
// so a failing line leaves no header behind.
func (r *OrderRepo) Insert(ctx context.Context, o *domain.Order) error {
	const op = "postgres.OrderRepo.Insert"

	db := r.handle()

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}

	if err := db.QueryRow(ctx,
		`INSERT INTO orders(id, table_code, buyer_id, restaurant_id, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		o.ID, o.TableCode, o.BuyerID, o.RestaurantID, string(o.Status),
	).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for _, l := range o.Lines {
		batch.Queue(
			`INSERT INTO order_lines(order_id, dish_id, quantity)
			 VALUES ($1, $2, $3)`,
			o.ID, l.DishID, l.Quantity,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "postgres.OrderRepo.Get"

	o, err := r.get(ctx, id, false)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

// GetForUpdate locks the order header until the transaction ends.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	const op = "postgres.OrderRepo.GetForUpdate"

	o, err := r.get(ctx, id, true)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return o, nil
}

func (r *OrderRepo) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Order, error) {
	db := r.handle()

	q := `SELECT id, table_code, buyer_id, restaurant_id, status, created_at, updated_at
		  FROM orders WHERE id = $1`
	if lock {
		q += ` FOR UPDATE`
	}

	var (
		o      domain.Order
		status string
	)
	if err := db.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.TableCode, &o.BuyerID, &o.RestaurantID, &status, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)

	rows, err := db.Query(ctx,
		`SELECT dish_id, quantity FROM order_lines
		 WHERE order_id = $1
		 ORDER BY dish_id`,
		id,
	)
	if err != nil {
		return nil, err
	}

	o.Lines, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.OrderLine, error) {
		var l domain.OrderLine
		err := row.Scan(&l.DishID, &l.Quantity)
		return l, err
	})
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// UpdateStatus is a compare-and-set on the order status. It fails with
// repository.ErrStaleState when the row is no longer in from.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (time.Time, error) {
	const op = "postgres.OrderRepo.UpdateStatus"

	db := r.handle()

	var updatedAt time.Time
	err := db.QueryRow(ctx,
		`UPDATE orders SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING updated_at`,
		id, string(from), string(to),
	).Scan(&updatedAt)
	if err != nil {
		if errors.Is(translateDBErr(err), repository.ErrNotFound) {
			return time.Time{}, wrapDBErr(op, repository.ErrStaleState)
		}
		return time.Time{}, wrapDBErr(op, err)
	}

	return updatedAt, nil
}
