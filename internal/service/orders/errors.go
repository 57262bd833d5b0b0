package orders

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrDishNotFound       = errors.New("dish not found")
	ErrConcurrentUpdate   = errors.New("order was modified concurrently")
)

// DishNotFoundError lists dishes that are unknown or belong to another
// restaurant.
type DishNotFoundError struct {
	RestaurantID int64
	DishIDs      []int64
}

func (e *DishNotFoundError) Error() string {
	return fmt.Sprintf("restaurant %d has no dishes %v", e.RestaurantID, e.DishIDs)
}

func (e *DishNotFoundError) Unwrap() error {
	return ErrDishNotFound
}
