package sessions

import "sync"

// TurnLocks provides per-session mutual exclusion for turn execution.
// Acquisition never blocks: a second turn arriving while one is in flight
// fails fast instead of queueing behind a long-running capability call.
type TurnLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTurnLocks creates an empty lock registry.
func NewTurnLocks() *TurnLocks {
	return &TurnLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

// TryAcquire attempts to take the lock for key. On success it returns a
// release function and true; when the key is already locked it returns
// nil and false.
func (t *TurnLocks) TryAcquire(key string) (func(), bool) {
	t.mu.Lock()
	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	t.mu.Unlock()

	if !lock.TryLock() {
		return nil, false
	}
	return lock.Unlock, true
}
