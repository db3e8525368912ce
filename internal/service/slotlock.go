package service

import "sync"

// slotLocks serializes booking creation per (date, time, clinic) key so the
// availability count and the insert cannot interleave for the same slot.
// Entries are never evicted; the map is bounded by the number of distinct
// slots ever booked in this process.
type slotLocks struct {
	locks sync.Map // slot key -> *sync.Mutex
}

func (s *slotLocks) acquire(key string) *sync.Mutex {
	m, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu
}
