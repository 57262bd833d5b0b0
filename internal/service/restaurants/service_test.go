package restaurants

import (
	"context"
	"errors"
	"testing"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/slots"
)

var owner = domain.Principal{UserID: 7, Role: domain.RoleOwner}

func seed() *memStore {
	m := newMemStore()
	m.restaurants[1] = domain.Restaurant{ID: 1, OwnerID: owner.UserID, Name: "Osteria", Capacity: 30}
	return m
}

func period(sh, sm, eh, em int) *domain.Period {
	return &domain.Period{Start: domain.NewTimeOfDay(sh, sm), End: domain.NewTimeOfDay(eh, em)}
}

func friday(launch, dinner *domain.Period, step int) domain.ServiceWindow {
	return domain.ServiceWindow{RestaurantID: 1, Weekday: domain.Friday, Launch: launch, Dinner: dinner, StepMinutes: step}
}

func handSlot(sh, sm, eh, em int) domain.Slot {
	return domain.Slot{ID: 1, RestaurantID: 1, Weekday: domain.Friday, Start: domain.NewTimeOfDay(sh, sm), End: domain.NewTimeOfDay(eh, em)}
}

func TestConfigureServiceWindow(t *testing.T) {
	m := seed()
	svc, cache := newTestService(m)

	got, err := svc.ConfigureServiceWindow(context.Background(), owner, friday(period(12, 0, 14, 0), period(19, 0, 21, 0), 60))
	if err != nil {
		t.Fatalf("ConfigureServiceWindow() error = %v", err)
	}

	want := []domain.TimeOfDay{
		domain.NewTimeOfDay(12, 0), domain.NewTimeOfDay(13, 0),
		domain.NewTimeOfDay(19, 0), domain.NewTimeOfDay(20, 0),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d slots, want %d", len(got), len(want))
	}

	windowID := m.windows[weekdayKey{1, domain.Friday}].ID
	for i, s := range got {
		if s.Start != want[i] || s.Minutes() != 60 {
			t.Errorf("slot %d = %s-%s", i, s.Start, s.End)
		}
		if s.ID == 0 || s.WindowID != windowID {
			t.Errorf("slot %d ID = %d, WindowID = %d, want window %d", i, s.ID, s.WindowID, windowID)
		}
	}
	if n := len(m.live(1, domain.Friday)); n != 4 {
		t.Errorf("%d live slots stored, want 4", n)
	}
	if cache.slots != 1 {
		t.Errorf("slot cache invalidated %d times, want 1", cache.slots)
	}
}

func TestConfigureServiceWindowRetiresPreviousSlots(t *testing.T) {
	m := seed()
	svc, _ := newTestService(m)
	ctx := context.Background()

	if _, err := svc.ConfigureServiceWindow(ctx, owner, friday(period(12, 0, 14, 0), nil, 60)); err != nil {
		t.Fatalf("first ConfigureServiceWindow() error = %v", err)
	}

	// Overlaps the first window's slots, which must be retired first.
	got, err := svc.ConfigureServiceWindow(ctx, owner, friday(period(11, 0, 13, 0), nil, 30))
	if err != nil {
		t.Fatalf("second ConfigureServiceWindow() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d slots, want 4", len(got))
	}

	live := m.live(1, domain.Friday)
	if len(live) != 4 {
		t.Errorf("%d live slots, want 4", len(live))
	}
	if len(m.slots) != 6 {
		t.Errorf("%d slots stored, want 6 with 2 retired", len(m.slots))
	}
}

func TestConfigureServiceWindowOverlapWritesNothing(t *testing.T) {
	tests := []struct {
		name      string
		prior     *domain.ServiceWindow
		hand      domain.Slot
		window    domain.ServiceWindow
		wantStart domain.TimeOfDay
	}{
		{
			name:      "hand-made slot",
			hand:      handSlot(13, 30, 14, 30),
			window:    friday(period(12, 0, 14, 0), nil, 60),
			wantStart: domain.NewTimeOfDay(13, 30),
		},
		{
			name:      "replacing a window",
			prior:     &domain.ServiceWindow{RestaurantID: 1, Weekday: domain.Friday, Launch: period(12, 0, 14, 0), StepMinutes: 60},
			hand:      handSlot(18, 0, 19, 30),
			window:    friday(nil, period(19, 0, 21, 0), 60),
			wantStart: domain.NewTimeOfDay(18, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := seed()
			svc, cache := newTestService(m)
			ctx := context.Background()

			if tt.prior != nil {
				if _, err := svc.ConfigureServiceWindow(ctx, owner, *tt.prior); err != nil {
					t.Fatalf("prior window error = %v", err)
				}
			}
			m.slots = append(m.slots, tt.hand)

			windowsBefore := m.windows[weekdayKey{1, domain.Friday}]
			slotsBefore := len(m.slots)
			liveBefore := len(m.live(1, domain.Friday))
			cacheBefore := cache.slots

			_, err := svc.ConfigureServiceWindow(ctx, owner, tt.window)
			if !errors.Is(err, slots.ErrOverlap) {
				t.Fatalf("ConfigureServiceWindow() error = %v, want overlap", err)
			}
			var oe *slots.OverlapError
			if !errors.As(err, &oe) || oe.Conflict.Start != tt.wantStart {
				t.Errorf("OverlapError = %+v, want conflict at %s", oe, tt.wantStart)
			}

			if len(m.slots) != slotsBefore {
				t.Errorf("%d slots stored, want %d", len(m.slots), slotsBefore)
			}
			if n := len(m.live(1, domain.Friday)); n != liveBefore {
				t.Errorf("%d live slots, want %d", n, liveBefore)
			}
			if w := m.windows[weekdayKey{1, domain.Friday}]; w.StepMinutes != windowsBefore.StepMinutes || (w.Dinner == nil) != (windowsBefore.Dinner == nil) {
				t.Errorf("window changed to %+v", w)
			}
			if cache.slots != cacheBefore {
				t.Errorf("slot cache invalidated after a failed configure")
			}
		})
	}
}

func TestConfigureServiceWindowRejections(t *testing.T) {
	tests := []struct {
		name    string
		p       domain.Principal
		w       domain.ServiceWindow
		wantErr error
	}{
		{"other owner", domain.Principal{UserID: 8, Role: domain.RoleOwner}, friday(period(12, 0, 14, 0), nil, 60), domain.ErrForbidden},
		{"unknown restaurant", owner, domain.ServiceWindow{RestaurantID: 9, Weekday: domain.Friday, Launch: period(12, 0, 14, 0), StepMinutes: 60}, ErrRestaurantNotFound},
		{"odd step", owner, friday(period(12, 0, 14, 0), nil, 45), domain.ErrValidation},
		{"no periods", owner, friday(nil, nil, 30), domain.ErrValidation},
		{"launch overlaps dinner", owner, friday(period(12, 0, 15, 0), period(14, 0, 16, 0), 60), slots.ErrOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := seed()
			svc, _ := newTestService(m)

			_, err := svc.ConfigureServiceWindow(context.Background(), tt.p, tt.w)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ConfigureServiceWindow() error = %v, want %v", err, tt.wantErr)
			}
			if len(m.slots) != 0 || len(m.windows) != 0 {
				t.Errorf("stored %d slots and %d windows after a rejected configure", len(m.slots), len(m.windows))
			}
		})
	}
}

func TestCreateSlotOverlap(t *testing.T) {
	m := seed()
	svc, _ := newTestService(m)
	ctx := context.Background()

	if _, err := svc.ConfigureServiceWindow(ctx, owner, friday(period(12, 0, 14, 0), nil, 60)); err != nil {
		t.Fatalf("ConfigureServiceWindow() error = %v", err)
	}

	_, err := svc.CreateSlot(ctx, owner, handSlot(13, 30, 14, 30))
	if !errors.Is(err, slots.ErrOverlap) {
		t.Fatalf("CreateSlot() error = %v, want overlap", err)
	}

	got, err := svc.CreateSlot(ctx, owner, handSlot(14, 0, 15, 0))
	if err != nil {
		t.Fatalf("CreateSlot() error = %v", err)
	}
	if got.ID == 0 || got.WindowID != 0 {
		t.Errorf("CreateSlot() = %+v", got)
	}
}

func TestRemoveServiceWindow(t *testing.T) {
	m := seed()
	svc, _ := newTestService(m)
	ctx := context.Background()

	if _, err := svc.ConfigureServiceWindow(ctx, owner, friday(period(12, 0, 14, 0), nil, 60)); err != nil {
		t.Fatalf("ConfigureServiceWindow() error = %v", err)
	}
	if err := svc.RemoveServiceWindow(ctx, owner, 1, domain.Friday); err != nil {
		t.Fatalf("RemoveServiceWindow() error = %v", err)
	}
	if n := len(m.live(1, domain.Friday)); n != 0 {
		t.Errorf("%d live slots after removal", n)
	}
	if err := svc.RemoveServiceWindow(ctx, owner, 1, domain.Friday); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("second RemoveServiceWindow() error = %v, want ErrWindowNotFound", err)
	}
}

func TestCanManage(t *testing.T) {
	rest := &domain.Restaurant{ID: 1, OwnerID: 7}

	tests := []struct {
		name string
		p    domain.Principal
		want bool
	}{
		{"owner", domain.Principal{UserID: 7, Role: domain.RoleOwner}, true},
		{"admin", domain.Principal{UserID: 1, Role: domain.RoleAdmin}, true},
		{"other owner", domain.Principal{UserID: 8, Role: domain.RoleOwner}, false},
		{"staff", domain.Principal{UserID: 9, Role: domain.RoleStaff}, false},
		{"anonymous", domain.Principal{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManage(tt.p, rest); got != tt.want {
				t.Errorf("CanManage() = %v, want %v", got, tt.want)
			}
		})
	}
}
