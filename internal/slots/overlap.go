package slots

import (
	"errors"
	"fmt"

	"github.com/kirinyoku/dinego/internal/domain"
)

var ErrOverlap = errors.New("slot overlaps an existing slot")

// OverlapError names the rejected candidate and the slot it collides with.
type OverlapError struct {
	Candidate domain.Slot
	Conflict  domain.Slot
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"slot %s-%s on %s overlaps %s-%s (restaurant %d)",
		e.Candidate.Start, e.Candidate.End, e.Candidate.Weekday,
		e.Conflict.Start, e.Conflict.End, e.Candidate.RestaurantID,
	)
}

func (e *OverlapError) Unwrap() []error {
	return []error{ErrOverlap, domain.ErrValidation}
}

// Overlaps reports whether a and b belong to the same restaurant and weekday
// and their half-open intervals intersect.
func Overlaps(a, b domain.Slot) bool {
	if a.RestaurantID != b.RestaurantID || a.Weekday != b.Weekday {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// FindConflict returns the first live slot in existing that overlaps candidate.
func FindConflict(candidate domain.Slot, existing []domain.Slot) (domain.Slot, bool) {
	for _, s := range existing {
		if s.Deleted {
			continue
		}
		if Overlaps(candidate, s) {
			return s, true
		}
	}
	return domain.Slot{}, false
}

// Check validates a single slot and rejects it when it overlaps existing.
func Check(candidate domain.Slot, existing []domain.Slot) error {
	if !candidate.Weekday.Valid() {
		return &domain.ValidationError{Field: "weekday", Reason: fmt.Sprintf("%d is not in 1..7", int(candidate.Weekday))}
	}
	if candidate.Start >= candidate.End {
		return &domain.ValidationError{Field: "slot", Reason: fmt.Sprintf("start %s is not before end %s", candidate.Start, candidate.End)}
	}
	if c, ok := FindConflict(candidate, existing); ok {
		return &OverlapError{Candidate: candidate, Conflict: c}
	}
	return nil
}
