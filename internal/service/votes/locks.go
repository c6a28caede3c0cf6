package votes

import "sync"

// locationLocks provides a mutex per location ID so concurrent casts on the
// same location serialize in-process. Entries are reference counted and
// removed once the last holder releases, so the map does not grow with the
// number of locations ever voted on.
type locationLocks struct {
	mu      sync.Mutex
	entries map[uint]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLocationLocks() *locationLocks {
	return &locationLocks{entries: make(map[uint]*lockEntry)}
}

// Lock acquires the mutex for the given location and returns its release
// function.
func (l *locationLocks) Lock(id uint) func() {
	l.mu.Lock()
	e, ok := l.entries[id]
	if !ok {
		e = &lockEntry{}
		l.entries[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, id)
		}
		l.mu.Unlock()
	}
}
