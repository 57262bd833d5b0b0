package httpgin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/dinego/internal/admission"
	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/eventbus"
	"github.com/kirinyoku/dinego/internal/lifecycle"
	redisrepo "github.com/kirinyoku/dinego/internal/repository/redis"
	"github.com/kirinyoku/dinego/internal/service/bookings"
	"github.com/kirinyoku/dinego/internal/service/orders"
	"github.com/kirinyoku/dinego/internal/slots"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestRespondErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"forbidden", fmt.Errorf("op: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{"booking not found", fmt.Errorf("op: %w", bookings.ErrBookingNotFound), http.StatusNotFound, "booking_not_found"},
		{"capacity", fmt.Errorf("op: %w", &admission.CapacityExceededError{RestaurantID: 1, SlotID: 2, Remaining: 1}), http.StatusConflict, "capacity_exceeded"},
		{"duplicate", &admission.DuplicateActiveBookingError{CustomerID: 1}, http.StatusConflict, "duplicate_active_booking"},
		{"transition", &lifecycle.TransitionError{Machine: "order", State: "created", Action: "complete"}, http.StatusConflict, "invalid_state_transition"},
		{"concurrent", fmt.Errorf("op: %w", orders.ErrConcurrentUpdate), http.StatusConflict, "concurrent_update"},
		{"weekday", &admission.InvalidWeekDayError{Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)}, http.StatusUnprocessableEntity, "invalid_weekday"},
		{"overlap", &slots.OverlapError{}, http.StatusUnprocessableEntity, "slot_overlap"},
		{"validation", &domain.ValidationError{Field: "seats", Reason: "must be positive"}, http.StatusUnprocessableEntity, "validation_failed"},
		{"listener", fmt.Errorf("op: %w", eventbus.ErrListener), http.StatusBadGateway, "notification_failed"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			respondErr(c, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := decodeError(t, rec).Code; got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestRespondErrRateLimited(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondErr(c, fmt.Errorf("op: %w", &bookings.RateLimitedError{RetryAfter: 1500 * time.Millisecond}))

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
}

func TestRespondErrHidesListenerCause(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondErr(c, fmt.Errorf("%w: dial tcp 10.0.0.3:5672: refused", eventbus.ErrListener))

	if got := decodeError(t, rec).Error; got != "notification delivery failed" {
		t.Errorf("message = %q", got)
	}
}

func TestPrincipalMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		role   string
		status int
		want   domain.Principal
	}{
		{"customer by default", "7", "", http.StatusOK, domain.Principal{UserID: 7, Role: domain.RoleCustomer}},
		{"owner", "8", "owner", http.StatusOK, domain.Principal{UserID: 8, Role: domain.RoleOwner}},
		{"missing id", "", "owner", http.StatusUnauthorized, domain.Principal{}},
		{"zero id", "0", "", http.StatusUnauthorized, domain.Principal{}},
		{"unknown role", "7", "root", http.StatusUnauthorized, domain.Principal{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Principal
			r := gin.New()
			r.GET("/", PrincipalMiddleware(), func(c *gin.Context) {
				got = principal(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(headerUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(headerUserRole, tt.role)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got != tt.want {
				t.Errorf("principal = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{"owner", http.StatusOK},
		{"admin", http.StatusOK},
		{"staff", http.StatusForbidden},
		{"customer", http.StatusForbidden},
	}

	r := gin.New()
	r.POST("/", PrincipalMiddleware(), RequireRole(domain.RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req.Header.Set(headerUserID, "3")
			req.Header.Set(headerUserRole, tt.role)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestWriteCachedJSONNotModified(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		writeCachedJSON(c, gin.H{"seats": 4}, "30")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	tag := rec.Header().Get("ETag")
	if tag == "" {
		t.Fatal("no ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", tag)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Errorf("second status = %d, want 304", rec.Code)
	}
}

type fakeIdem struct {
	pending  map[string]bool
	done     map[string][]byte
	released []string
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{pending: map[string]bool{}, done: map[string][]byte{}}
}

func (f *fakeIdem) Reserve(_ context.Context, key string) (redisrepo.Claim, error) {
	if b, ok := f.done[key]; ok {
		return redisrepo.Claim{Replay: b}, nil
	}
	if f.pending[key] {
		return redisrepo.Claim{}, nil
	}
	f.pending[key] = true
	return redisrepo.Claim{Owner: true}, nil
}

func (f *fakeIdem) Complete(_ context.Context, key string, payload []byte) error {
	delete(f.pending, key)
	f.done[key] = payload
	return nil
}

func (f *fakeIdem) Release(_ context.Context, key string) error {
	delete(f.pending, key)
	f.released = append(f.released, key)
	return nil
}

func TestIdempotent(t *testing.T) {
	store := newFakeIdem()
	calls := 0
	fail := false

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		idempotent(c, store, func(k string) string { return "test:" + k }, http.StatusCreated, func() (any, error) {
			calls++
			if fail {
				return nil, bookings.ErrSlotNotFound
			}
			return gin.H{"call": calls}, nil
		})
	})

	do := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	first := do("k1")
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d", first.Code)
	}
	replay := do("k1")
	if replay.Code != http.StatusCreated || replay.Body.String() != first.Body.String() {
		t.Errorf("replay = %d %s, want %d %s", replay.Code, replay.Body, first.Code, first.Body)
	}
	if calls != 1 {
		t.Errorf("calls = %d after replay, want 1", calls)
	}

	store.pending["test:k2"] = true
	if rec := do("k2"); rec.Code != http.StatusConflict {
		t.Errorf("in-flight status = %d, want 409", rec.Code)
	}

	fail = true
	if rec := do("k3"); rec.Code != http.StatusNotFound {
		t.Errorf("failing status = %d, want 404", rec.Code)
	}
	if len(store.released) != 1 || store.released[0] != "test:k3" {
		t.Errorf("released = %v, want [test:k3]", store.released)
	}

	fail = false
	do("")
	do("")
	if calls != 4 {
		t.Errorf("calls = %d, want 4 without keys", calls)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Weekday
		ok   bool
	}{
		{"1", domain.Monday, true},
		{"7", domain.Sunday, true},
		{"0", 0, false},
		{"8", 0, false},
		{"mon", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseWeekday(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("parseWeekday(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestServiceWindowRequestToDomain(t *testing.T) {
	at := func(h, m int) *domain.TimeOfDay {
		v := domain.NewTimeOfDay(h, m)
		return &v
	}

	w, err := ServiceWindowRequest{LaunchStart: at(12, 0), LaunchEnd: at(15, 0), StepMinutes: 30}.toDomain(4, domain.Friday)
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if w.Launch == nil || w.Dinner != nil || w.RestaurantID != 4 || w.Weekday != domain.Friday {
		t.Errorf("window = %+v", w)
	}

	_, err = ServiceWindowRequest{DinnerStart: at(19, 0), StepMinutes: 30}.toDomain(4, domain.Friday)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("half period err = %v, want validation", err)
	}
}
