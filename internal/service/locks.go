package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// slotLocks serializes reserve/reschedule critical sections per
// (provider, date). Different providers or different days never contend.
// Entries are reference-counted so the table does not grow without bound.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*slotLock
}

type slotLock struct {
	mu   sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*slotLock)}
}

// acquire blocks until the (provider, date) key is held and returns the
// release func.
func (t *slotLocks) acquire(providerID uuid.UUID, date time.Time) func() {
	key := providerID.String() + "@" + date.Format("2006-01-02")

	t.mu.Lock()
	l, ok := t.locks[key]
	if !ok {
		l = &slotLock{}
		t.locks[key] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, key)
		}
		t.mu.Unlock()
	}
}
