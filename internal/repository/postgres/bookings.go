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

type BookingRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// LockPool takes a transaction-scoped advisory lock on the seat pool named
// by key. It must run inside a transaction; the lock is released on commit
// or rollback.
func (r *BookingRepo) LockPool(ctx context.Context, key string) error {
	const op = "postgres.BookingRepo.LockPool"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		key,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// SumActiveSeats returns the seats held by active, non-deleted bookings of
// one (restaurant, date, slot) tuple.
func (r *BookingRepo) SumActiveSeats(ctx context.Context, restaurantID int64, date time.Time, slotID int64) (int, error) {
	const op = "postgres.BookingRepo.SumActiveSeats"

	db := r.handle()

	var sum int
	if err := db.QueryRow(ctx,
		`SELECT COALESCE(SUM(seats), 0)
		 FROM bookings
		 WHERE restaurant_id = $1 AND booking_date = $2 AND slot_id = $3
		   AND status = 'active' AND deleted_at IS NULL`,
		restaurantID, domain.Date(date), slotID,
	).Scan(&sum); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return sum, nil
}

func (r *BookingRepo) HasDuplicateActiveBooking(ctx context.Context, customerID, restaurantID int64, date time.Time) (bool, error) {
	const op = "postgres.BookingRepo.HasDuplicateActiveBooking"

	db := r.handle()

	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE customer_id = $1 AND restaurant_id = $2 AND booking_date = $3
			  AND status = 'active' AND deleted_at IS NULL
		 )`,
		customerID, restaurantID, domain.Date(date),
	).Scan(&exists); err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// Insert stores b, assigning a new ID when b.ID is nil.
func (r *BookingRepo) Insert(ctx context.Context, b *domain.Booking) error {
	const op = "postgres.BookingRepo.Insert"

	db := r.handle()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	if err := db.QueryRow(ctx,
		`INSERT INTO bookings(id, booking_date, seats, slot_id, customer_id, restaurant_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		b.ID, domain.Date(b.Date), b.Seats, b.SlotID, b.CustomerID, b.RestaurantID, string(b.Status),
	).Scan(&b.CreatedAt, &b.UpdatedAt); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

const bookingColumns = `id, booking_date, seats, slot_id, customer_id, restaurant_id, status,
	deleted_at IS NOT NULL, created_at, updated_at`

func scanBooking(row pgx.Row) (domain.Booking, error) {
	var (
		b      domain.Booking
		status string
	)
	err := row.Scan(
		&b.ID, &b.Date, &b.Seats, &b.SlotID, &b.CustomerID, &b.RestaurantID, &status,
		&b.Deleted, &b.CreatedAt, &b.UpdatedAt,
	)
	b.Status = domain.BookingStatus(status)
	b.Date = domain.Date(b.Date)
	return b, err
}

// Get returns a booking, soft-deleted ones included.
//
// Returns:
//   - error: repository.ErrNotFound if the booking does not exist.
func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.Get"

	db := r.handle()

	b, err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// GetForUpdate is Get with a row lock held until the transaction ends.
func (r *BookingRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	const op = "postgres.BookingRepo.GetForUpdate"

	db := r.handle()

	b, err := scanBooking(db.QueryRow(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// UpdateStatus moves a booking from one status to another. It fails with
// repository.ErrStaleState when the row is no longer in from.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.BookingStatus) (time.Time, error) {
	const op = "postgres.BookingRepo.UpdateStatus"

	db := r.handle()

	var updatedAt time.Time
	err := db.QueryRow(ctx,
		`UPDATE bookings SET status = $3, updated_at = now()
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

// SoftDelete hides a booking without touching its status.
//
// Returns:
//   - error: repository.ErrNotFound if there is no live booking with that ID.
func (r *BookingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.BookingRepo.SoftDelete"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE bookings SET deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// ListByCustomer returns the live bookings of a customer, newest date first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	const op = "postgres.BookingRepo.ListByCustomer"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+bookingColumns+`
		 FROM bookings
		 WHERE customer_id = $1 AND deleted_at IS NULL
		 ORDER BY booking_date DESC, created_at DESC
		 LIMIT $2 OFFSET $3`,
		customerID, limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	bookings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Booking, error) {
		return scanBooking(row)
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return bookings, nil
}

// BookedSeatsByDate sums active seats per slot for one restaurant and date.
// Slots without bookings are absent from the map.
func (r *BookingRepo) BookedSeatsByDate(ctx context.Context, restaurantID int64, date time.Time) (map[int64]int, error) {
	const op = "postgres.BookingRepo.BookedSeatsByDate"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT slot_id, SUM(seats)
		 FROM bookings
		 WHERE restaurant_id = $1 AND booking_date = $2
		   AND status = 'active' AND deleted_at IS NULL
		 GROUP BY slot_id`,
		restaurantID, domain.Date(date),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	booked := make(map[int64]int)
	for rows.Next() {
		var (
			slotID int64
			seats  int
		)
		if err := rows.Scan(&slotID, &seats); err != nil {
			return nil, wrapDBErr(op, err)
		}
		booked[slotID] = seats
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return booked, nil
}
