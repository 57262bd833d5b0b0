package admission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kirinyoku/dinego/internal/domain"
)

// fakeLedger keeps admitted seats in memory and counts queries.
type fakeLedger struct {
	mu        sync.Mutex
	seats     map[Key]int
	customers map[string]bool
	sumCalls  int
	sumErr    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{seats: make(map[Key]int), customers: make(map[string]bool)}
}

func customerKey(customerID, restaurantID int64, date time.Time) string {
	return KeyFor(restaurantID, customerID, date).String()
}

func (f *fakeLedger) SumActiveSeats(ctx context.Context, restaurantID int64, date time.Time, slotID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sumCalls++
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	return f.seats[KeyFor(restaurantID, slotID, date)], nil
}

func (f *fakeLedger) HasDuplicateActiveBooking(ctx context.Context, customerID, restaurantID int64, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customers[customerKey(customerID, restaurantID, date)], nil
}

func (f *fakeLedger) admit(req Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[KeyFor(req.Restaurant.ID, req.Slot.ID, req.Date)] += req.Seats
	f.customers[customerKey(req.CustomerID, req.Restaurant.ID, req.Date)] = true
}

var (
	// Thursday.
	now = time.Date(2026, 10, 15, 15, 0, 0, 0, time.UTC)
	// Wednesday next week.
	nextWednesday = time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC)
)

func baseRequest() Request {
	return Request{
		CustomerID: 100,
		Restaurant: domain.Restaurant{ID: 1, Capacity: 10},
		Slot: domain.Slot{
			ID:           5,
			RestaurantID: 1,
			Weekday:      domain.Wednesday,
			Start:        domain.NewTimeOfDay(19, 0),
			End:          domain.NewTimeOfDay(20, 0),
		},
		Date:  nextWednesday,
		Seats: 2,
		Now:   now,
	}
}

func TestCheckCapacity(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seats[KeyFor(1, 5, nextWednesday)] = 8

	req := baseRequest()
	req.Seats = 3
	err := Check(context.Background(), req, ledger)

	var ce *CapacityExceededError
	if !errors.As(err, &ce) {
		t.Fatalf("Check(3 seats) error = %v, want *CapacityExceededError", err)
	}
	if ce.RestaurantID != 1 || ce.SlotID != 5 || !ce.Date.Equal(nextWednesday) || ce.Remaining != 2 {
		t.Errorf("CapacityExceededError = %+v", ce)
	}
	if !errors.Is(err, ErrRejected) || errors.Is(err, domain.ErrValidation) {
		t.Errorf("capacity error %v should be a rejection, not a validation error", err)
	}

	req.Seats = 2
	if err := Check(context.Background(), req, ledger); err != nil {
		t.Fatalf("Check(2 seats) error = %v", err)
	}
}

func TestCheckWeekdayBeforeCapacity(t *testing.T) {
	ledger := newFakeLedger()

	req := baseRequest()
	req.Slot.Weekday = domain.Tuesday

	err := Check(context.Background(), req, ledger)
	var we *InvalidWeekDayError
	if !errors.As(err, &we) {
		t.Fatalf("error = %v, want *InvalidWeekDayError", err)
	}
	if we.DateWeekday != domain.Wednesday || we.SlotWeekday != domain.Tuesday {
		t.Errorf("InvalidWeekDayError = %+v", we)
	}
	if ledger.sumCalls != 0 {
		t.Errorf("capacity was queried %d times before the weekday check failed", ledger.sumCalls)
	}
}

func TestCheckRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request, *fakeLedger)
		wantErr error
	}{
		{
			name:    "zero seats",
			mutate:  func(r *Request, _ *fakeLedger) { r.Seats = 0 },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "slot of another restaurant",
			mutate:  func(r *Request, _ *fakeLedger) { r.Slot.RestaurantID = 2 },
			wantErr: ErrInvalidRestaurant,
		},
		{
			name: "duplicate active booking",
			mutate: func(r *Request, l *fakeLedger) {
				l.customers[customerKey(r.CustomerID, r.Restaurant.ID, r.Date)] = true
			},
			wantErr: ErrDuplicateActiveBooking,
		},
		{
			name: "duplicate wins over past sitting",
			mutate: func(r *Request, l *fakeLedger) {
				r.Date = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
				l.customers[customerKey(r.CustomerID, r.Restaurant.ID, r.Date)] = true
			},
			wantErr: ErrDuplicateActiveBooking,
		},
		{
			name:    "past date",
			mutate:  func(r *Request, _ *fakeLedger) { r.Date = time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrInvalidSittingTime,
		},
		{
			name: "today, slot already started",
			mutate: func(r *Request, _ *fakeLedger) {
				r.Date = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
				r.Slot.Weekday = domain.Thursday
				r.Slot.Start = domain.NewTimeOfDay(12, 0)
			},
			wantErr: ErrInvalidSittingTime,
		},
		{
			name: "today, slot starting right now",
			mutate: func(r *Request, _ *fakeLedger) {
				r.Date = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
				r.Slot.Weekday = domain.Thursday
				r.Slot.Start = domain.NewTimeOfDay(15, 0)
			},
			wantErr: ErrInvalidSittingTime,
		},
		{
			name: "today, later slot",
			mutate: func(r *Request, _ *fakeLedger) {
				r.Date = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
				r.Slot.Weekday = domain.Thursday
				r.Slot.Start = domain.NewTimeOfDay(18, 0)
			},
		},
		{
			name: "future date with an early slot",
			mutate: func(r *Request, _ *fakeLedger) {
				r.Slot.Start = domain.NewTimeOfDay(8, 0)
			},
		},
		{
			name: "exactly full",
			mutate: func(r *Request, l *fakeLedger) {
				l.seats[KeyFor(1, 5, r.Date)] = 8
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			ledger := newFakeLedger()
			tt.mutate(&req, ledger)

			err := Check(context.Background(), req, ledger)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Check() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSittingTimeUsesLocation(t *testing.T) {
	// 23:30 UTC on Thursday is already Friday 01:30 in UTC+2.
	loc := time.FixedZone("UTC+2", 2*3600)
	req := baseRequest()
	req.Now = time.Date(2026, 10, 15, 23, 30, 0, 0, time.UTC)
	req.Location = loc
	req.Date = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	req.Slot.Weekday = domain.Thursday
	req.Slot.Start = domain.NewTimeOfDay(23, 45)

	if err := Check(context.Background(), req, newFakeLedger()); !errors.Is(err, ErrInvalidSittingTime) {
		t.Fatalf("error = %v, want ErrInvalidSittingTime", err)
	}
}

func TestCheckLedgerFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.sumErr = errors.New("connection reset")

	err := Check(context.Background(), baseRequest(), ledger)
	if !errors.Is(err, ledger.sumErr) {
		t.Fatalf("error = %v, want ledger failure", err)
	}
}

// Racing requests for one tuple never push the seat total past capacity
// when each check-and-admit runs under Locks.
func TestCheckConcurrentAdmission(t *testing.T) {
	ledger := newFakeLedger()
	locks := NewLocks()

	const workers = 40
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(customer int64) {
			defer wg.Done()

			req := baseRequest()
			req.CustomerID = customer
			req.Seats = 3

			unlock := locks.Lock(KeyFor(req.Restaurant.ID, req.Slot.ID, req.Date))
			defer unlock()

			err := Check(context.Background(), req, ledger)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ledger.admit(req)
				admitted++
			case errors.Is(err, ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	if got := ledger.seats[KeyFor(1, 5, nextWednesday)]; got > 10 {
		t.Fatalf("admitted %d seats, capacity is 10", got)
	}
	if admitted != 3 || rejected != workers-3 {
		t.Fatalf("admitted = %d, rejected = %d", admitted, rejected)
	}
	if n := locks.size(); n != 0 {
		t.Errorf("locks retained %d entries", n)
	}
}
