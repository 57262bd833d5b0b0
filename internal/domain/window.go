package domain

import "fmt"

// SlotSteps are the slot lengths, in minutes, a ServiceWindow may use.
var SlotSteps = []int{15, 30, 60}

func validStep(step int) bool {
	for _, s := range SlotSteps {
		if s == step {
			return true
		}
	}
	return false
}

func (w ServiceWindow) Validate() error {
	if w.RestaurantID <= 0 {
		return &ValidationError{Field: "restaurant_id", Reason: "must be positive"}
	}
	if !w.Weekday.Valid() {
		return &ValidationError{Field: "weekday", Reason: fmt.Sprintf("%d is not in 1..7", int(w.Weekday))}
	}
	if !validStep(w.StepMinutes) {
		return &ValidationError{Field: "step_minutes", Reason: fmt.Sprintf("%d is not one of %v", w.StepMinutes, SlotSteps)}
	}
	if w.Launch == nil && w.Dinner == nil {
		return &ValidationError{Field: "service_window", Reason: "launch or dinner period is required"}
	}
	if err := checkPeriod("launch", w.Launch); err != nil {
		return err
	}
	return checkPeriod("dinner", w.Dinner)
}

func checkPeriod(name string, p *Period) error {
	if p != nil && p.Start >= p.End {
		return &ValidationError{Field: name, Reason: fmt.Sprintf("start %s is not before end %s", p.Start, p.End)}
	}
	return nil
}

// Periods returns the configured sub-windows, launch first.
func (w ServiceWindow) Periods() []Period {
	var out []Period
	if w.Launch != nil {
		out = append(out, *w.Launch)
	}
	if w.Dinner != nil {
		out = append(out, *w.Dinner)
	}
	return out
}
