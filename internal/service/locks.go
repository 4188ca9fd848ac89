package service

import (
	"sync"

	"github.com/google/uuid"
)

// attemptLocks serializes section-state transitions per attempt. Resolve,
// lock and activate are a read-modify-write over several rows; without this
// two concurrent calls could activate the same next section or lock one
// twice. Attempts are independent units of concurrency, so the lock is
// keyed, never global.
//
// Entries are released when the last holder leaves, so the map does not
// grow with attempt history.
type attemptLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*attemptLock
}

type attemptLock struct {
	mu      sync.Mutex
	holders int
}

func newAttemptLocks() *attemptLocks {
	return &attemptLocks{locks: make(map[uuid.UUID]*attemptLock)}
}

// Lock blocks until the attempt's lock is held and returns the unlock func.
func (l *attemptLocks) Lock(attemptID uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[attemptID]
	if !ok {
		entry = &attemptLock{}
		l.locks[attemptID] = entry
	}
	entry.holders++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(l.locks, attemptID)
		}
		l.mu.Unlock()
	}
}
