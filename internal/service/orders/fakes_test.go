package orders

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
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

// memStore keeps orders in a map that RunTx restores when fn fails.
type memStore struct {
	mu          sync.Mutex
	restaurants map[int64]domain.Restaurant
	staff       map[int64][]int64
	dishes      map[int64]domain.Dish
	orders      map[uuid.UUID]domain.Order

	staleUpdate bool
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: make(map[int64]domain.Restaurant),
		staff:       make(map[int64][]int64),
		dishes:      make(map[int64]domain.Dish),
		orders:      make(map[uuid.UUID]domain.Order),
	}
}

func (m *memStore) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context, tx postgresrepo.DB) error) error {
	m.mu.Lock()
	snapshot := maps.Clone(m.orders)
	m.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		m.mu.Lock()
		m.orders = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Orders(postgresrepo.DB) OrderRepo           { return memOrders{m} }
func (m *memStore) Restaurants(postgresrepo.DB) RestaurantRepo { return memRestaurants{m} }

func (m *memStore) order(id uuid.UUID) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memStore) put(o domain.Order) domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.orders[o.ID] = o
	return o
}

type memOrders struct{ m *memStore }

func (r memOrders) Insert(_ context.Context, o *domain.Order) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	r.m.orders[o.ID] = *o
	return nil
}

func (r memOrders) Get(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r memOrders) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.Get(ctx, id)
}

func (r memOrders) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.OrderStatus) (time.Time, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	o, ok := r.m.orders[id]
	if !ok || r.m.staleUpdate || o.Status != from {
		return time.Time{}, repository.ErrStaleState
	}
	o.Status = to
	o.UpdatedAt = o.UpdatedAt.Add(time.Second)
	r.m.orders[id] = o
	return o.UpdatedAt, nil
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
	return slices.Contains(r.m.staff[restaurantID], userID), nil
}

func (r memRestaurants) DishesByIDs(_ context.Context, restaurantID int64, ids []int64) ([]domain.Dish, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []domain.Dish
	for _, id := range ids {
		if d, ok := r.m.dishes[id]; ok && d.RestaurantID == restaurantID {
			out = append(out, d)
		}
	}
	return out, nil
}

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

func newTestService(m *memStore, sender notify.Sender) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(m, sender, uow.NewUoW(m, log, 0), log)
}
