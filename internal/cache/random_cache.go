package cache

import (
	"errors"
	"math/rand/v2"
	"sync"
)

// ErrInvalidCapacity is returned when a cache is constructed with capacity < 1.
var ErrInvalidCapacity = errors.New("cache capacity must be at least 1")

// RandomCache is a slice-backed bounded cache with optional concurrency safety.
// When full, the victim is chosen uniformly over all slots, not by recency.
type RandomCache[V any] struct {
	// If muPtr is nil, the cache is NOT goroutine-safe.
	// If muPtr is non-nil, it guards all operations.
	muPtr *sync.RWMutex

	capacity int
	items    []V
	pick     func(n int) int
}

// Options controls construction of a RandomCache.
type Options struct {
	// ConcurrencySafe controls whether operations are guarded by a RWMutex.
	// If false, the cache is not safe for concurrent use.
	ConcurrencySafe bool

	// Picker returns an index in [0, n). Defaults to rand.IntN.
	Picker func(n int) int
}

// NewRandomCache constructs a new RandomCache holding at most capacity items.
func NewRandomCache[V any](capacity int, opts Options) (*RandomCache[V], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	var mu *sync.RWMutex
	if opts.ConcurrencySafe {
		mu = &sync.RWMutex{}
	}
	pick := opts.Picker
	if pick == nil {
		pick = rand.IntN
	}
	return &RandomCache[V]{
		muPtr:    mu,
		capacity: capacity,
		items:    make([]V, 0, capacity),
		pick:     pick,
	}, nil
}

func (c *RandomCache[V]) lockR() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.RLock()
	return c.muPtr.RUnlock
}

func (c *RandomCache[V]) lockW() func() {
	if c.muPtr == nil {
		return func() {}
	}
	c.muPtr.Lock()
	return c.muPtr.Unlock
}

// Add implements Bounded.Add. The eviction and the append happen under one lock.
func (c *RandomCache[V]) Add(value V) (V, bool) {
	unlock := c.lockW()
	defer unlock()

	var victim V
	if len(c.items) < c.capacity {
		c.items = append(c.items, value)
		return victim, false
	}

	idx := c.pick(c.capacity)
	if idx < 0 || idx >= c.capacity {
		// a misbehaving picker must not corrupt the slice
		idx = 0
	}
	victim = c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.items = append(c.items, value)
	return victim, true
}

// Items implements Bounded.Items.
func (c *RandomCache[V]) Items() []V {
	unlock := c.lockR()
	defer unlock()
	out := make([]V, len(c.items))
	copy(out, c.items)
	return out
}

// Len implements Bounded.Len.
func (c *RandomCache[V]) Len() int {
	unlock := c.lockR()
	defer unlock()
	return len(c.items)
}

// Cap implements Bounded.Cap.
func (c *RandomCache[V]) Cap() int {
	return c.capacity
}

// Ensure RandomCache implements Bounded at compile time.
var _ Bounded[any] = (*RandomCache[any])(nil)
