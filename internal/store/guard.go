package store

import "sync"

// GroupGuard hands out one mutex per group so every load-modify-save cycle
// against a group's file is serialized. Locks are created lazily and kept for
// the process lifetime; growth is bounded by the number of distinct groups
// ever seen.
type GroupGuard struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGroupGuard() *GroupGuard {
	return &GroupGuard{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the group's mutex and returns the release function. Locks
// for different groups are independent.
func (g *GroupGuard) Acquire(groupID string) func() {
	g.mu.Lock()
	lock, ok := g.locks[groupID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[groupID] = lock
	}
	g.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
