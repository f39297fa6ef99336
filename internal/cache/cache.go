package cache

// Bounded defines a fixed-capacity, insertion-ordered collection.
// Implementations may or may not be goroutine-safe depending on configuration.
type Bounded[V any] interface {
	// Add appends value at the end. When the collection is already full one
	// existing item is removed first and returned with evicted=true.
	Add(value V) (victim V, evicted bool)

	// Items returns a copy of the current contents in insertion order.
	Items() []V

	// Len returns the number of items currently stored.
	Len() int

	// Cap returns the configured capacity.
	Cap() int
}
