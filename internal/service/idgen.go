package service

import (
	"sync"
	"time"
)

// idGenerator issues time-based booking identifiers. Concurrent callers in
// the same millisecond get strictly increasing values instead of collisions.
type idGenerator struct {
	mu   sync.Mutex
	last int64
}

func (g *idGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
