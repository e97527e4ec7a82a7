// internal/lifecycle/locks.go
package lifecycle

import "sync"

// KeyedLocks serializes state transitions per email. Two concurrent
// reply-processing calls for the same email take the same lock, so only
// one of them can observe awaiting_reply and leave it.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*entry)}
}

// Lock acquires the lock for key and returns its unlock function. Entries
// are reference counted and removed once unused, so the registry does not
// grow with the total number of emails ever processed.
func (k *KeyedLocks) Lock(key string) (unlock func()) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
