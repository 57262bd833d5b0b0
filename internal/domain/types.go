package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

type BookingAction string

const (
	BookingCancel BookingAction = "cancel"
)

type OrderStatus string

const (
	OrderCreated   OrderStatus = "created"
	OrderPaid      OrderStatus = "paid"
	OrderPreparing OrderStatus = "preparing"
	OrderCompleted OrderStatus = "completed"
)

type OrderAction string

const (
	OrderAwaitPayment OrderAction = "await_payment"
	OrderPrepare      OrderAction = "prepare"
	OrderComplete     OrderAction = "complete"
)

type Restaurant struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

type Dish struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	PriceCents   int    `json:"price_cents"`
}

// ServiceWindow is the launch/dinner configuration of one restaurant weekday.
type ServiceWindow struct {
	ID           int64   `json:"id"`
	RestaurantID int64   `json:"restaurant_id"`
	Weekday      Weekday `json:"weekday"`
	Launch       *Period `json:"launch,omitempty"`
	Dinner       *Period `json:"dinner,omitempty"`
	StepMinutes  int     `json:"step_minutes"`
}

// Slot is a bookable interval derived from a ServiceWindow. Deleted slots
// stay referenced by old bookings but take no part in overlap checks.
type Slot struct {
	ID           int64     `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	WindowID     int64     `json:"window_id"`
	Weekday      Weekday   `json:"weekday"`
	Start        TimeOfDay `json:"start"`
	End          TimeOfDay `json:"end"`
	Deleted      bool      `json:"-"`
}

func (s Slot) Minutes() int {
	return int(s.End - s.Start)
}

type Booking struct {
	ID           uuid.UUID     `json:"id"`
	Date         time.Time     `json:"date"`
	Seats        int           `json:"seats"`
	SlotID       int64         `json:"slot_id"`
	CustomerID   int64         `json:"customer_id"`
	RestaurantID int64         `json:"restaurant_id"`
	Status       BookingStatus `json:"status"`
	Deleted      bool          `json:"deleted"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type OrderLine struct {
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

type Order struct {
	ID           uuid.UUID   `json:"id"`
	TableCode    string      `json:"table_code"`
	Lines        []OrderLine `json:"lines"`
	BuyerID      int64       `json:"buyer_id"`
	RestaurantID int64       `json:"restaurant_id"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Review struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID int64     `json:"restaurant_id"`
	AuthorID     int64     `json:"author_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type SlotAvailability struct {
	Slot      Slot `json:"slot"`
	Capacity  int  `json:"capacity"`
	Booked    int  `json:"booked"`
	Remaining int  `json:"remaining"`
}
