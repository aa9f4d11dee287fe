package locker

import "sync"

// Registry hands out one mutex per entity key so concurrent mutations on
// the same employee, leave or sick leave serialize. Callers must re-read
// current state after acquiring; the loser of a race then observes the
// already-applied transition instead of overwriting it.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Registry {
	return &Registry{locks: make(map[string]*entry)}
}

// Acquire blocks until the key's lock is held and returns its release func.
func (r *Registry) Acquire(key string) func() {
	r.mu.Lock()
	e, ok := r.locks[key]
	if !ok {
		e = &entry{}
		r.locks[key] = e
	}
	e.refs++
	r.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		r.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(r.locks, key)
		}
		r.mu.Unlock()
	}
}
