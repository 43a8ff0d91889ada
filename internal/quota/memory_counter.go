package quota

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is a process-local Counter. It serves single-instance
// deployments without redis and the test suite; a multi-instance deployment
// needs the redis counter for the ceiling to hold globally.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int)}
}

func (c *MemoryCounter) Increment(_ context.Context, tenantID int64, day time.Time, seed int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := dayKey(tenantID, day)
	if _, ok := c.counts[key]; !ok {
		c.counts[key] = seed
	}
	c.counts[key]++
	return c.counts[key], nil
}

func (c *MemoryCounter) Decrement(_ context.Context, tenantID int64, day time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// An unseeded day has nothing to give back; creating a negative entry
	// would corrupt the next seed.
	key := dayKey(tenantID, day)
	if _, ok := c.counts[key]; ok {
		c.counts[key]--
	}
	return nil
}

var _ Counter = (*MemoryCounter)(nil)
