package httpgin

import (
	"github.com/kirinyoku/dinego/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type CreateRestaurantRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
}

type AddStaffRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
}

type AddDishRequest struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int    `json:"price_cents"`
}

// ServiceWindowRequest configures one weekday. Times are "HH:MM"; a period
// is given with both bounds or left out entirely.
type ServiceWindowRequest struct {
	LaunchStart *domain.TimeOfDay `json:"launch_start" swaggertype:"string" example:"12:00"`
	LaunchEnd   *domain.TimeOfDay `json:"launch_end" swaggertype:"string" example:"15:00"`
	DinnerStart *domain.TimeOfDay `json:"dinner_start" swaggertype:"string" example:"19:00"`
	DinnerEnd   *domain.TimeOfDay `json:"dinner_end" swaggertype:"string" example:"23:00"`
	StepMinutes int               `json:"step_minutes" binding:"required" example:"30"`
}

func (r ServiceWindowRequest) toDomain(restaurantID int64, wd domain.Weekday) (domain.ServiceWindow, error) {
	launch, err := domain.NewPeriod("launch", r.LaunchStart, r.LaunchEnd)
	if err != nil {
		return domain.ServiceWindow{}, err
	}
	dinner, err := domain.NewPeriod("dinner", r.DinnerStart, r.DinnerEnd)
	if err != nil {
		return domain.ServiceWindow{}, err
	}
	return domain.ServiceWindow{
		RestaurantID: restaurantID,
		Weekday:      wd,
		Launch:       launch,
		Dinner:       dinner,
		StepMinutes:  r.StepMinutes,
	}, nil
}

type CreateSlotRequest struct {
	Weekday int              `json:"weekday" binding:"required" example:"1"`
	Start   domain.TimeOfDay `json:"start" swaggertype:"string" example:"16:00"`
	End     domain.TimeOfDay `json:"end" swaggertype:"string" example:"16:30"`
}

type CreateBookingRequest struct {
	RestaurantID int64  `json:"restaurant_id" binding:"required"`
	SlotID       int64  `json:"slot_id" binding:"required"`
	Date         string `json:"date" binding:"required" example:"2026-03-02"`
	Seats        int    `json:"seats"`
}

type OrderLineInput struct {
	DishID   int64 `json:"dish_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

type CreateOrderRequest struct {
	RestaurantID int64            `json:"restaurant_id" binding:"required"`
	TableCode    string           `json:"table_code" binding:"required"`
	Lines        []OrderLineInput `json:"lines"`
}

func (r CreateOrderRequest) lines() []domain.OrderLine {
	out := make([]domain.OrderLine, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = domain.OrderLine{DishID: l.DishID, Quantity: l.Quantity}
	}
	return out
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
