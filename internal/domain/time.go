package domain

import (
	"fmt"
	"time"
)

// Weekday is an ISO weekday: Monday = 1 ... Sunday = 7.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func WeekdayOf(t time.Time) Weekday {
	wd := t.Weekday()
	if wd == time.Sunday {
		return Sunday
	}
	return Weekday(wd)
}

func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	if w == Sunday {
		return time.Sunday.String()
	}
	return time.Weekday(w).String()
}

// TimeOfDay counts minutes since midnight.
type TimeOfDay int

const minutesPerDay = 24 * 60

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay accepts exactly "HH:MM"; "24:00" is allowed as end of day.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return minutesPerDay, nil
	}
	if len(s) != 5 || s[2] != ':' {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("%q is not HH:MM", s)}
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("%q is out of range", s)}
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// On places t on the calendar day of date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// Period is a half-open [Start, End) range within one day.
type Period struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// NewPeriod builds an optional period from optional bounds: both nil means
// no period, exactly one nil is a validation error.
func NewPeriod(field string, start, end *TimeOfDay) (*Period, error) {
	switch {
	case start == nil && end == nil:
		return nil, nil
	case start == nil || end == nil:
		return nil, &ValidationError{Field: field, Reason: "start and end must be given together"}
	case *start >= *end:
		return nil, &ValidationError{Field: field, Reason: fmt.Sprintf("start %s is not before end %s", start, end)}
	}
	return &Period{Start: *start, End: *end}, nil
}

// Date truncates t to a UTC calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", s)}
	}
	return t, nil
}
