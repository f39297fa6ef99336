package facts

import (
	"context"
	"sync"
)

// SyncCruncher serializes access to a Cruncher so HTTP handlers and the
// scheduler can share one instance. When the cruncher was built with
// WithConcurrencySafeTummy, tummy reads do not wait for a running cycle.
type SyncCruncher struct {
	mu sync.Mutex
	c  *Cruncher
}

// NewSyncCruncher wraps c. c must not be used directly afterwards.
func NewSyncCruncher(c *Cruncher) *SyncCruncher {
	return &SyncCruncher{c: c}
}

// Crunch runs one cycle; concurrent calls run one after another.
func (s *SyncCruncher) Crunch(ctx context.Context) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Crunch(ctx)
}

// Tummy returns a copy of the retained facts.
func (s *SyncCruncher) Tummy() []RetainedFact {
	if s.c.safeTummy {
		return s.c.Tummy()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Tummy()
}

// Log returns the requester's log. It waits for any running cycle, since
// the requester appends to its log without locking.
func (s *SyncCruncher) Log() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Log()
}

// Capacity returns the maximum tummy size. It never changes after
// construction, so no lock is taken.
func (s *SyncCruncher) Capacity() int {
	return s.c.Capacity()
}
