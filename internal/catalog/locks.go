package catalog

import "sync"

// LocationLocks serializes index writes per Location within one process.
// Locks for different Locations never contend.
type LocationLocks struct {
	mu    sync.Mutex
	locks map[int64]*locationLock
}

type locationLock struct {
	mu   sync.Mutex
	refs int
}

func NewLocationLocks() *LocationLocks {
	return &LocationLocks{locks: make(map[int64]*locationLock)}
}

// Lock blocks until the Location is free and returns the matching unlock.
// Entries are dropped once no goroutine holds or waits for them.
func (l *LocationLocks) Lock(locationID int64) (unlock func()) {
	l.mu.Lock()
	lk, ok := l.locks[locationID]
	if !ok {
		lk = &locationLock{}
		l.locks[locationID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			lk.mu.Unlock()
			l.mu.Lock()
			lk.refs--
			if lk.refs == 0 {
				delete(l.locks, locationID)
			}
			l.mu.Unlock()
		})
	}
}

// Held returns how many Locations currently have a holder or waiter.
func (l *LocationLocks) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
