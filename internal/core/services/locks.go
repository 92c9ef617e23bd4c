package services

import (
	"sync"
)

// LockRegistry hands out reader/writer locks keyed by tenant-scoped resource names.
// Locks exist only while held or waited on.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.RWMutex
	refs int
}

// NewLockRegistry creates an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*keyedLock)}
}

func (r *LockRegistry) acquire(key string) *keyedLock {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &keyedLock{}
		r.locks[key] = l
	}
	l.refs++
	return l
}

func (r *LockRegistry) release(key string, l *keyedLock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(r.locks, key)
	}
}

// Lock takes the exclusive lock for key and returns its release func.
func (r *LockRegistry) Lock(key string) func() {
	l := r.acquire(key)
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.release(key, l)
	}
}

// RLock takes a shared lock for key and returns its release func.
func (r *LockRegistry) RLock(key string) func() {
	l := r.acquire(key)
	l.mu.RLock()
	return func() {
		l.mu.RUnlock()
		r.release(key, l)
	}
}

// size reports how many keys are currently tracked.
func (r *LockRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

func periodLockKey(tenantID, periodID string) string {
	return tenantID + "/period/" + periodID
}

func entryLockKey(tenantID, entryID string) string {
	return tenantID + "/entry/" + entryID
}
