package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every error caused by input that is
// inconsistent with the domain rules.
var ErrValidation = errors.New("validation failed")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrForbidden means the principal may not act on the target entity.
var ErrForbidden = errors.New("forbidden")
