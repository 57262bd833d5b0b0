// Package slots turns service windows into discrete bookable slots and
// guards the no-overlap rule for a restaurant's weekday.
package slots

import (
	"github.com/kirinyoku/dinego/internal/domain"
)

// Generate expands w into full-length slots. A trailing remainder shorter
// than the step is dropped. Every candidate is checked against existing and
// against the candidates accepted before it; the first conflict fails the
// whole window and nothing is returned.
func Generate(w domain.ServiceWindow, existing []domain.Slot) ([]domain.Slot, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	seen := make([]domain.Slot, 0, len(existing)+Count(w))
	seen = append(seen, existing...)

	var out []domain.Slot
	for _, p := range w.Periods() {
		for start := p.Start; start.Add(w.StepMinutes) <= p.End; start = start.Add(w.StepMinutes) {
			candidate := domain.Slot{
				RestaurantID: w.RestaurantID,
				WindowID:     w.ID,
				Weekday:      w.Weekday,
				Start:        start,
				End:          start.Add(w.StepMinutes),
			}
			if err := Check(candidate, seen); err != nil {
				return nil, err
			}
			seen = append(seen, candidate)
			out = append(out, candidate)
		}
	}

	return out, nil
}

// Count is the number of slots Generate emits for a valid window.
func Count(w domain.ServiceWindow) int {
	if w.StepMinutes <= 0 {
		return 0
	}
	n := 0
	for _, p := range w.Periods() {
		if p.End > p.Start {
			n += int(p.End-p.Start) / w.StepMinutes
		}
	}
	return n
}
