package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/dinego/internal/domain"
)

// WindowRepo stores service windows and the slots generated from them.
type WindowRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *WindowRepo) With(db DB) *WindowRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *WindowRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// LockWeekday serializes slot changes of one restaurant weekday for the
// rest of the transaction.
func (r *WindowRepo) LockWeekday(ctx context.Context, restaurantID int64, wd domain.Weekday) error {
	const op = "postgres.WindowRepo.LockWeekday"

	db := r.handle()

	key := fmt.Sprintf("restaurant:%d:weekday:%d", restaurantID, int(wd))
	if _, err := db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		key,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func periodArgs(p *domain.Period) (any, any) {
	if p == nil {
		return nil, nil
	}
	return int(p.Start), int(p.End)
}

func periodFrom(start, end *int) *domain.Period {
	if start == nil || end == nil {
		return nil
	}
	return &domain.Period{Start: domain.TimeOfDay(*start), End: domain.TimeOfDay(*end)}
}

// UpsertWindow stores w as the live window of its restaurant and weekday,
// replacing the previous configuration in place. It returns the ID of the
// window that was replaced (0 if none) and sets w.ID.
func (r *WindowRepo) UpsertWindow(ctx context.Context, w *domain.ServiceWindow) (int64, error) {
	const op = "postgres.WindowRepo.UpsertWindow"

	db := r.handle()

	var previous int64
	err := db.QueryRow(ctx,
		`SELECT id FROM service_windows
		 WHERE restaurant_id = $1 AND weekday = $2 AND deleted_at IS NULL
		 FOR UPDATE`,
		w.RestaurantID, int(w.Weekday),
	).Scan(&previous)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, wrapDBErr(op, err)
	}

	ls, le := periodArgs(w.Launch)
	ds, de := periodArgs(w.Dinner)

	if err := db.QueryRow(ctx,
		`INSERT INTO service_windows(restaurant_id, weekday, launch_start, launch_end, dinner_start, dinner_end, step_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (restaurant_id, weekday) WHERE deleted_at IS NULL
		 DO UPDATE SET launch_start = EXCLUDED.launch_start,
		               launch_end = EXCLUDED.launch_end,
		               dinner_start = EXCLUDED.dinner_start,
		               dinner_end = EXCLUDED.dinner_end,
		               step_minutes = EXCLUDED.step_minutes
		 RETURNING id`,
		w.RestaurantID, int(w.Weekday), ls, le, ds, de, w.StepMinutes,
	).Scan(&w.ID); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return previous, nil
}

// GetWindow returns the live window of a restaurant weekday.
//
// Returns:
//   - error: repository.ErrNotFound if the weekday is not configured.
func (r *WindowRepo) GetWindow(ctx context.Context, restaurantID int64, wd domain.Weekday) (*domain.ServiceWindow, error) {
	const op = "postgres.WindowRepo.GetWindow"

	db := r.handle()

	var (
		w       domain.ServiceWindow
		weekday int
		ls, le  *int
		ds, de  *int
	)
	if err := db.QueryRow(ctx,
		`SELECT id, restaurant_id, weekday, launch_start, launch_end, dinner_start, dinner_end, step_minutes
		 FROM service_windows
		 WHERE restaurant_id = $1 AND weekday = $2 AND deleted_at IS NULL`,
		restaurantID, int(wd),
	).Scan(&w.ID, &w.RestaurantID, &weekday, &ls, &le, &ds, &de, &w.StepMinutes); err != nil {
		return nil, wrapDBErr(op, err)
	}

	w.Weekday = domain.Weekday(weekday)
	w.Launch = periodFrom(ls, le)
	w.Dinner = periodFrom(ds, de)

	return &w, nil
}

// SoftDeleteWindow marks the live window of a restaurant weekday as deleted
// and returns its ID.
func (r *WindowRepo) SoftDeleteWindow(ctx context.Context, restaurantID int64, wd domain.Weekday) (int64, error) {
	const op = "postgres.WindowRepo.SoftDeleteWindow"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`UPDATE service_windows SET deleted_at = now()
		 WHERE restaurant_id = $1 AND weekday = $2 AND deleted_at IS NULL
		 RETURNING id`,
		restaurantID, int(wd),
	).Scan(&id); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}

// SoftDeleteSlotsByWindow retires every live slot generated from windowID.
func (r *WindowRepo) SoftDeleteSlotsByWindow(ctx context.Context, windowID int64) (int64, error) {
	const op = "postgres.WindowRepo.SoftDeleteSlotsByWindow"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE slots SET deleted_at = now()
		 WHERE window_id = $1 AND deleted_at IS NULL`,
		windowID,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return tag.RowsAffected(), nil
}

const slotColumns = `id, restaurant_id, window_id, weekday, start_min, end_min, deleted_at IS NOT NULL`

func scanSlot(row pgx.Row) (domain.Slot, error) {
	var (
		s        domain.Slot
		windowID *int64
		weekday  int
		start    int
		end      int
	)
	if err := row.Scan(&s.ID, &s.RestaurantID, &windowID, &weekday, &start, &end, &s.Deleted); err != nil {
		return domain.Slot{}, err
	}
	if windowID != nil {
		s.WindowID = *windowID
	}
	s.Weekday = domain.Weekday(weekday)
	s.Start = domain.TimeOfDay(start)
	s.End = domain.TimeOfDay(end)
	return s, nil
}

// LiveSlots lists the non-deleted slots of a restaurant weekday by start time.
func (r *WindowRepo) LiveSlots(ctx context.Context, restaurantID int64, wd domain.Weekday) ([]domain.Slot, error) {
	const op = "postgres.WindowRepo.LiveSlots"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT `+slotColumns+`
		 FROM slots
		 WHERE restaurant_id = $1 AND weekday = $2 AND deleted_at IS NULL
		 ORDER BY start_min`,
		restaurantID, int(wd),
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	slots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Slot, error) {
		return scanSlot(row)
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return slots, nil
}

// InsertSlots writes the batch in one round trip and fills in the IDs.
// Callers run it inside a transaction so the batch lands as a whole.
func (r *WindowRepo) InsertSlots(ctx context.Context, slots []domain.Slot) error {
	const op = "postgres.WindowRepo.InsertSlots"

	if len(slots) == 0 {
		return nil
	}

	db := r.handle()

	batch := &pgx.Batch{}
	for _, s := range slots {
		var windowID any
		if s.WindowID != 0 {
			windowID = s.WindowID
		}
		batch.Queue(
			`INSERT INTO slots(restaurant_id, window_id, weekday, start_min, end_min)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id`,
			s.RestaurantID, windowID, int(s.Weekday), int(s.Start), int(s.End),
		)
	}

	br := db.SendBatch(ctx, batch)
	for i := range slots {
		if err := br.QueryRow().Scan(&slots[i].ID); err != nil {
			br.Close()
			return wrapDBErr(op, err)
		}
	}

	if err := br.Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// GetSlot returns a slot by ID, deleted or not.
//
// Returns:
//   - error: repository.ErrNotFound if the slot does not exist.
func (r *WindowRepo) GetSlot(ctx context.Context, id int64) (*domain.Slot, error) {
	const op = "postgres.WindowRepo.GetSlot"

	db := r.handle()

	s, err := scanSlot(db.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM slots WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &s, nil
}
