// services/locks.go
package services

import (
	"sync"

	"github.com/google/uuid"
)

// bikeLocks hands out one mutex per bike so that booking attempts for the
// same bike are serialized inside the process. Together with the row lock
// taken in the booking transaction this closes the check-then-insert race
// that could over-book the last unit.
//
// Entries are never evicted. The map is bounded by the number of bikes in
// the catalog, not by traffic, so it stays small for any realistic fleet.
type bikeLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newBikeLocks() *bikeLocks {
	return &bikeLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *bikeLocks) get(id uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}
