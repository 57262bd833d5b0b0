package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	// ErrStaleState means a compare-and-set update found another state.
	ErrStaleState = errors.New("state changed concurrently")
)
