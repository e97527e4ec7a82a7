// internal/guard/counter_memory.go
package guard

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process DailyCounter with the same contract as the
// Redis implementation. Suitable for tests and single-instance deployments
// without Redis.
type MemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int)}
}

func (c *MemoryCounter) Reserve(_ context.Context, orgID string, day time.Time, cap int) (bool, error) {
	key := dayKey(orgID, day)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[key]+1 > cap {
		return false, nil
	}
	c.counts[key]++
	return true, nil
}

func (c *MemoryCounter) Release(_ context.Context, orgID string, day time.Time) error {
	key := dayKey(orgID, day)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts[key] > 0 {
		c.counts[key]--
	}
	return nil
}

func (c *MemoryCounter) Count(_ context.Context, orgID string, day time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[dayKey(orgID, day)], nil
}

var _ DailyCounter = (*MemoryCounter)(nil)
