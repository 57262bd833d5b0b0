package admission

import (
	"fmt"
	"sync"
	"time"
)

// Key identifies the seat pool shared by bookings of one slot on one date.
type Key struct {
	RestaurantID int64
	SlotID       int64
	Date         string
}

func KeyFor(restaurantID, slotID int64, date time.Time) Key {
	return Key{RestaurantID: restaurantID, SlotID: slotID, Date: date.Format(time.DateOnly)}
}

func (k Key) String() string {
	return fmt.Sprintf("restaurant:%d:slot:%d:date:%s", k.RestaurantID, k.SlotID, k.Date)
}

// Locks is a process-local mutex per Key. Entries are dropped once no
// goroutine holds or waits for them.
type Locks struct {
	mu      sync.Mutex
	entries map[Key]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{entries: make(map[Key]*lockEntry)}
}

// Lock blocks until k is free and returns the matching unlock.
func (l *Locks) Lock(k Key) func() {
	l.mu.Lock()
	e, ok := l.entries[k]
	if !ok {
		e = &lockEntry{}
		l.entries[k] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.entries, k)
			}
			l.mu.Unlock()
		})
	}
}

func (l *Locks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
