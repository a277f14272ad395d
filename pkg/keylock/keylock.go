package keylock

import "sync"

// KeyLock provides a mutex per string key. Lockers for distinct keys never
// block each other; lockers for the same key are serialized in FIFO-ish
// order. Entries are removed once the last holder releases, so the map does
// not grow with the key space.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyLock {
	return &KeyLock{
		locks: make(map[string]*lockEntry),
	}
}

func (k *KeyLock) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the lock for key. Calling Unlock without a matching Lock
// is a programming error, same as sync.Mutex.
func (k *KeyLock) Unlock(key string) {
	k.mu.Lock()
	e := k.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
