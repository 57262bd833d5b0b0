package restaurants

import (
	"errors"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantConflict = errors.New("restaurant already exists")
	ErrDishConflict       = errors.New("dish already exists")
	ErrWindowNotFound     = errors.New("service window not found")
)
