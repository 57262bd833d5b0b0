package reviews

import "errors"

var ErrRestaurantNotFound = errors.New("restaurant not found")
