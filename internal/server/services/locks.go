package services

import (
	"hash/fnv"
	"sync"
)

const userLockCount = 64

// userLocks serializes read-modify-write sequences on one user document
// within the process, so a user's check list and its fields are never
// updated from a stale copy. Separate processes sharing a store are not
// covered.
var userLocks stripedLocks

type stripedLocks struct {
	mu [userLockCount]sync.Mutex
}

// lock takes the stripe for key and returns its unlock func.
func (l *stripedLocks) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.mu[h.Sum32()%userLockCount]
	m.Lock()
	return m.Unlock
}
