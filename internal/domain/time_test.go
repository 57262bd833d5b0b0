package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestWeekdayOf(t *testing.T) {
	tests := []struct {
		date string
		want Weekday
	}{
		{"2026-10-12", Monday},
		{"2026-10-14", Wednesday},
		{"2026-10-17", Saturday},
		{"2026-10-18", Sunday},
	}

	for _, tt := range tests {
		d, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", tt.date, err)
		}
		if got := WeekdayOf(d); got != tt.want {
			t.Errorf("WeekdayOf(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "12:00", want: NewTimeOfDay(12, 0)},
		{in: "00:15", want: 15},
		{in: "24:00", want: minutesPerDay},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "23:59", want: NewTimeOfDay(23, 59)},
		{in: "25:00", wantErr: true},
		{in: "12:5x", wantErr: true},
		{in: "+9:30", wantErr: true},
		{in: "1:30 ", wantErr: true},
		{in: " 9:30", wantErr: true},
		{in: "12-30", wantErr: true},
		{in: "-1:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseTimeOfDay(%q) error = %v, want validation error", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimeOfDayJSON(t *testing.T) {
	p := Period{Start: NewTimeOfDay(18, 30), End: NewTimeOfDay(22, 0)}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != `{"start":"18:30","end":"22:00"}` {
		t.Fatalf("Marshal = %s", b)
	}

	var back Period
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}

func TestTimeOfDayOn(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	date := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	got := NewTimeOfDay(19, 45).On(date, loc)
	want := time.Date(2026, 10, 14, 19, 45, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("On() = %v, want %v", got, want)
	}
}

func TestNewPeriod(t *testing.T) {
	at := func(h, m int) *TimeOfDay {
		v := NewTimeOfDay(h, m)
		return &v
	}

	t.Run("absent", func(t *testing.T) {
		p, err := NewPeriod("launch", nil, nil)
		if err != nil || p != nil {
			t.Fatalf("NewPeriod(nil, nil) = %v, %v; want nil, nil", p, err)
		}
	})

	t.Run("start without end", func(t *testing.T) {
		if _, err := NewPeriod("launch", at(12, 0), nil); !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want validation error", err)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		if _, err := NewPeriod("dinner", at(22, 0), at(18, 0)); !errors.Is(err, ErrValidation) {
			t.Fatalf("error = %v, want validation error", err)
		}
	})

	t.Run("ok", func(t *testing.T) {
		p, err := NewPeriod("dinner", at(18, 0), at(22, 0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Start != NewTimeOfDay(18, 0) || p.End != NewTimeOfDay(22, 0) {
			t.Errorf("period = %+v", p)
		}
	})
}
