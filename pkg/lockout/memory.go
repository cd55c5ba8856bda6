package lockout

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	count       int
	windowStart time.Time
}

// MemoryCounter is a process-local Counter. It suits tests and single-node
// deployments; counts are lost on restart.
type MemoryCounter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

// NewMemoryCounter creates an empty MemoryCounter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{entries: make(map[string]*memoryEntry)}
}

func (c *MemoryCounter) IncrementFailedAttempts(_ context.Context, userID string, at time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		e = &memoryEntry{windowStart: at}
		c.entries[userID] = e
	}
	e.count++
	return e.count, nil
}

func (c *MemoryCounter) ResetFailedAttempts(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, userID)
	return nil
}

// Attempts returns the current count and window start for userID.
func (c *MemoryCounter) Attempts(userID string) (int, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[userID]; ok {
		return e.count, e.windowStart
	}
	return 0, time.Time{}
}
