package restaurants

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/kirinyoku/dinego/internal/domain"
	"github.com/kirinyoku/dinego/internal/repository"
	postgresrepo "github.com/kirinyoku/dinego/internal/repository/postgres"
	"github.com/kirinyoku/dinego/internal/uow"
)

type weekdayKey struct {
	restaurantID int64
	weekday      domain.Weekday
}

// memStore keeps windows and slots in memory. RunTx puts both back when fn
// fails.
type memStore struct {
	mu          sync.Mutex
	restaurants map[int64]domain.Restaurant
	staff       map[int64][]int64
	dishes      []domain.Dish
	windows     map[weekdayKey]domain.ServiceWindow
	slots       []domain.Slot
	nextID      int64
	weekdayLock int
}

func newMemStore() *memStore {
	return &memStore{
		restaurants: make(map[int64]domain.Restaurant),
		staff:       make(map[int64][]int64),
		windows:     make(map[weekdayKey]domain.ServiceWindow),
		nextID:      1000,
	}
}

func (m *memStore) RunTx(ctx context.Context, _ *pgx.TxOptions, fn func(ctx context.Context, tx postgresrepo.DB) error) error {
	m.mu.Lock()
	windows := maps.Clone(m.windows)
	slots := slices.Clone(m.slots)
	m.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		m.mu.Lock()
		m.windows = windows
		m.slots = slots
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Restaurants(postgresrepo.DB) RestaurantRepo { return memRestaurants{m} }
func (m *memStore) Windows(postgresrepo.DB) WindowRepo         { return memWindows{m} }

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) live(restaurantID int64, wd domain.Weekday) []domain.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.liveLocked(restaurantID, wd)
}

func (m *memStore) liveLocked(restaurantID int64, wd domain.Weekday) []domain.Slot {
	var out []domain.Slot
	for _, s := range m.slots {
		if s.RestaurantID == restaurantID && s.Weekday == wd && !s.Deleted {
			out = append(out, s)
		}
	}
	return out
}

type memRestaurants struct{ m *memStore }

func (r memRestaurants) Create(_ context.Context, rest *domain.Restaurant) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.restaurants {
		if other.Name == rest.Name {
			return repository.ErrConflict
		}
	}
	rest.ID = r.m.id()
	r.m.restaurants[rest.ID] = *rest
	return nil
}

func (r memRestaurants) Get(_ context.Context, id int64) (*domain.Restaurant, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	rest, ok := r.m.restaurants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rest, nil
}

func (r memRestaurants) AddStaff(_ context.Context, restaurantID, userID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if !slices.Contains(r.m.staff[restaurantID], userID) {
		r.m.staff[restaurantID] = append(r.m.staff[restaurantID], userID)
	}
	return nil
}

func (r memRestaurants) CreateDish(_ context.Context, d *domain.Dish) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.dishes {
		if other.RestaurantID == d.RestaurantID && other.Name == d.Name {
			return repository.ErrConflict
		}
	}
	d.ID = r.m.id()
	r.m.dishes = append(r.m.dishes, *d)
	return nil
}

type memWindows struct{ m *memStore }

func (r memWindows) LockWeekday(context.Context, int64, domain.Weekday) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.weekdayLock++
	return nil
}

func (r memWindows) UpsertWindow(_ context.Context, w *domain.ServiceWindow) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	k := weekdayKey{w.RestaurantID, w.Weekday}
	var previous int64
	if old, ok := r.m.windows[k]; ok {
		previous = old.ID
		w.ID = old.ID
	} else {
		w.ID = r.m.id()
	}
	r.m.windows[k] = *w
	return previous, nil
}

func (r memWindows) SoftDeleteWindow(_ context.Context, restaurantID int64, wd domain.Weekday) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	k := weekdayKey{restaurantID, wd}
	w, ok := r.m.windows[k]
	if !ok {
		return 0, repository.ErrNotFound
	}
	delete(r.m.windows, k)
	return w.ID, nil
}

func (r memWindows) SoftDeleteSlotsByWindow(_ context.Context, windowID int64) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for i := range r.m.slots {
		if r.m.slots[i].WindowID == windowID && !r.m.slots[i].Deleted {
			r.m.slots[i].Deleted = true
			n++
		}
	}
	return n, nil
}

func (r memWindows) LiveSlots(_ context.Context, restaurantID int64, wd domain.Weekday) ([]domain.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.m.liveLocked(restaurantID, wd), nil
}

func (r memWindows) InsertSlots(_ context.Context, slots []domain.Slot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range slots {
		slots[i].ID = r.m.id()
		r.m.slots = append(r.m.slots, slots[i])
	}
	return nil
}

type fakeCache struct {
	mu    sync.Mutex
	slots int
	menus int
}

func (c *fakeCache) InvalidateSlots(context.Context, int64, int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots++
	return nil
}

func (c *fakeCache) InvalidateMenu(context.Context, int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menus++
	return nil
}

func newTestService(m *memStore) (*Service, *fakeCache) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := &fakeCache{}
	return New(m, cache, uow.NewUoW(m, log, 0), log), cache
}
