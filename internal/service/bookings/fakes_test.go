package bookings

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/notify"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	"github.com/kirinyoku/dinego/internal/uow"
)

// memStore keeps everything in maps. RunTx restores the bookings when fn
// fails, like a rolled back transaction.
type memStore struct {
	mu          sync.Mutex
	restaurants map[int64]domain.Restaurant
	staff       map[int64][]int64
	slots       map[int64]domain.Slot
	bookings    map[uuid.UUID]domain.Booking

	// staleUpdate makes UpdateStatus behave as if another writer won.
	staleUpdate bool
	ledgerCalls int
	poolLocks   []string
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: make(map[int64]domain.Restaurant),
		staff:       make(map[int64][]int64),
		slots:       make(map[int64]domain.Slot),
		bookings:    make(map[uuid.UUID]domain.Booking),
	}
}

func (m *memStore) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context, tx postgresrepo.DB) error) error {
	m.mu.Lock()
	snapshot := maps.Clone(m.bookings)
	m.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		m.mu.Lock()
		m.bookings = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Bookings(postgresrepo.DB) BookingRepo       { return memBookings{m} }
func (m *memStore) Restaurants(postgresrepo.DB) RestaurantRepo { return memRestaurants{m} }
func (m *memStore) Slots(postgresrepo.DB) SlotRepo             { return memSlots{m} }

func (m *memStore) booking(id uuid.UUID) domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

func (m *memStore) put(b domain.Booking) domain.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.bookings[b.ID] = b
	return b
}

type memBookings struct{ m *memStore }

func (r memBookings) LockPool(_ context.Context, key string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.poolLocks = append(r.m.poolLocks, key)
	return nil
}

func (r memBookings) SumActiveSeats(_ context.Context, restaurantID int64, date time.Time, slotID int64) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.ledgerCalls++
	sum := 0
	for _, b := range r.m.bookings {
		if b.RestaurantID == restaurantID && b.SlotID == slotID && b.Date.Equal(date) &&
			b.Status == domain.BookingActive && !b.Deleted {
			sum += b.Seats
		}
	}
	return sum, nil
}

func (r memBookings) HasDuplicateActiveBooking(_ context.Context, customerID, restaurantID int64, date time.Time) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.ledgerCalls++
	for _, b := range r.m.bookings {
		if b.CustomerID == customerID && b.RestaurantID == restaurantID && b.Date.Equal(date) &&
			b.Status == domain.BookingActive && !b.Deleted {
			return true, nil
		}
	}
	return false, nil
}

func (r memBookings) Insert(_ context.Context, b *domain.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.m.bookings[b.ID] = *b
	return nil
}

func (r memBookings) Get(_ context.Context, id uuid.UUID) (*domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r memBookings) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return r.Get(ctx, id)
}

func (r memBookings) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.BookingStatus) (time.Time, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || r.m.staleUpdate || b.Status != from {
		return time.Time{}, repository.ErrStaleState
	}
	b.Status = to
	b.UpdatedAt = b.UpdatedAt.Add(time.Second)
	r.m.bookings[id] = b
	return b.UpdatedAt, nil
}

func (r memBookings) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok || b.Deleted {
		return repository.ErrNotFound
	}
	b.Deleted = true
	r.m.bookings[id] = b
	return nil
}

func (r memBookings) ListByCustomer(_ context.Context, customerID int64, limit, offset int) ([]domain.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.m.bookings {
		if b.CustomerID == customerID && !b.Deleted {
			out = append(out, b)
		}
	}
	return out, nil
}

type memRestaurants struct{ m *memStore }

func (r memRestaurants) Get(_ context.Context, id int64) (*domain.Restaurant, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rest, ok := r.m.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rest, nil
}

func (r memRestaurants) Staff(_ context.Context, restaurantID int64) ([]int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.staff[restaurantID], nil
}

func (r memRestaurants) IsStaff(_ context.Context, restaurantID, userID int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, id := range r.m.staff[restaurantID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type memSlots struct{ m *memStore }

func (r memSlots) GetSlot(_ context.Context, id int64) (*domain.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *fakeCache) InvalidateAvailability(context.Context, int64, time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

// recordingSender keeps what it was asked to send, or fails with err.
type recordingSender struct {
	mu   sync.Mutex
	sent []notify.Notification
	err  error
}

func (s *recordingSender) Send(_ context.Context, n notify.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) recipients() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int64, len(s.sent))
	for i, n := range s.sent {
		out[i] = n.RecipientID
	}
	return out
}

func newTestService(m *memStore, sender notify.Sender, now time.Time) (*Service, *fakeCache) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := &fakeCache{}
	u := uow.NewUoW(m, log, 0)

	s := New(m, cache, nil, sender, u, log, Config{Location: time.UTC})
	s.now = func() time.Time { return now }
	return s, cache
}
