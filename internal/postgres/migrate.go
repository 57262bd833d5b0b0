package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
	id BIGSERIAL PRIMARY KEY,
	owner_id BIGINT NOT NULL,
	name TEXT NOT NULL UNIQUE,
	capacity INT NOT NULL CHECK (capacity > 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS restaurant_staff (
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL,
	PRIMARY KEY (restaurant_id, user_id)
);

CREATE TABLE IF NOT EXISTS dishes (
	id BIGSERIAL PRIMARY KEY,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	price_cents INT NOT NULL CHECK (price_cents >= 0),
	UNIQUE (restaurant_id, name)
);

CREATE TABLE IF NOT EXISTS service_windows (
	id BIGSERIAL PRIMARY KEY,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 1 AND 7),
	launch_start SMALLINT,
	launch_end SMALLINT,
	dinner_start SMALLINT,
	dinner_end SMALLINT,
	step_minutes SMALLINT NOT NULL,
	deleted_at TIMESTAMPTZ,
	CHECK ((launch_start IS NULL) = (launch_end IS NULL)),
	CHECK ((dinner_start IS NULL) = (dinner_end IS NULL)),
	CHECK (launch_start IS NOT NULL OR dinner_start IS NOT NULL)
);

CREATE UNIQUE INDEX IF NOT EXISTS service_windows_one_per_weekday
	ON service_windows (restaurant_id, weekday) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS slots (
	id BIGSERIAL PRIMARY KEY,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	window_id BIGINT REFERENCES service_windows(id),
	weekday SMALLINT NOT NULL CHECK (weekday BETWEEN 1 AND 7),
	start_min SMALLINT NOT NULL,
	end_min SMALLINT NOT NULL,
	deleted_at TIMESTAMPTZ,
	CHECK (start_min < end_min)
);

CREATE INDEX IF NOT EXISTS slots_live
	ON slots (restaurant_id, weekday) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	booking_date DATE NOT NULL,
	seats INT NOT NULL CHECK (seats > 0),
	slot_id BIGINT NOT NULL REFERENCES slots(id),
	customer_id BIGINT NOT NULL,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
	status TEXT NOT NULL CHECK (status IN ('active', 'cancelled')),
	deleted_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS bookings_seat_pool
	ON bookings (restaurant_id, slot_id, booking_date)
	WHERE status = 'active' AND deleted_at IS NULL;

CREATE INDEX IF NOT EXISTS bookings_customer_day
	ON bookings (customer_id, restaurant_id, booking_date)
	WHERE status = 'active' AND deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	table_code TEXT NOT NULL,
	buyer_id BIGINT NOT NULL,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id),
	status TEXT NOT NULL CHECK (status IN ('created', 'paid', 'preparing', 'completed')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS order_lines (
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	dish_id BIGINT NOT NULL REFERENCES dishes(id),
	quantity INT NOT NULL CHECK (quantity > 0),
	PRIMARY KEY (order_id, dish_id)
);

CREATE TABLE IF NOT EXISTS reviews (
	id UUID PRIMARY KEY,
	restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
	author_id BIGINT NOT NULL,
	rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	comment TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const op = "postgres.Migrate"

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}
