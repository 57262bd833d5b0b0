package query

import (
	"errors"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
)
