package facts

import (
	"context"
	"errors"
	"fmt"

	"number-cruncher/internal/cache"

	"github.com/golang/glog"
)

// ErrCrunchFailed is the only error kind Crunch returns. The cause is kept as
// text; its type is not exposed.
var ErrCrunchFailed = errors.New("crunch failed")

// ErrInvalidCapacity is returned by NewCruncher when capacity < 1.
var ErrInvalidCapacity = cache.ErrInvalidCapacity

// Fetcher is the contract the cruncher needs from a requester.
type Fetcher interface {
	Fetch(ctx context.Context) (FetchOutcome, error)
}

// Auditor is implemented by fetchers that keep a log of their attempts.
type Auditor interface {
	Log() []LogEntry
}

// Event describes one finished crunch cycle. Err is non-nil when the cycle
// failed, in which case Status is the zero value.
type Event struct {
	Status    Status
	Err       error
	TummySize int
	Capacity  int
}

// Observer is notified after every crunch cycle.
type Observer func(Event)

// Cruncher keeps at most capacity even-numbered facts, fed by its requester.
// Crunch is not safe for concurrent use; callers serialize cycles.
type Cruncher struct {
	requester Fetcher
	tummy     cache.Bounded[RetainedFact]
	observers []Observer
	// safeTummy is set when the tummy guards itself and may be read
	// while a cycle is running.
	safeTummy bool
}

// NewCruncher builds a cruncher with its own Requester configured from cfg.
// WithFetcher substitutes the requester entirely.
func NewCruncher(capacity int, cfg Config, opts ...Option) (*Cruncher, error) {
	o := buildOptions(opts)

	tummy, err := cache.NewRandomCache[RetainedFact](capacity, cache.Options{
		ConcurrencySafe: o.safeTummy,
		Picker:          o.picker,
	})
	if err != nil {
		return nil, err
	}

	requester := o.fetcher
	if requester == nil {
		requester = NewRequester(cfg, opts...)
	}

	return &Cruncher{
		requester: requester,
		tummy:     tummy,
		observers: o.observers,
		safeTummy: o.safeTummy,
	}, nil
}

// Crunch runs one fetch-classify-store cycle.
func (c *Cruncher) Crunch(ctx context.Context) (Status, error) {
	status, err := c.crunch(ctx)
	if err != nil {
		glog.Warningf("crunch: %v", err)
	} else if glog.V(1) {
		glog.Infof("crunch: %s", status)
	}
	c.notify(Event{
		Status:    status,
		Err:       err,
		TummySize: c.tummy.Len(),
		Capacity:  c.tummy.Cap(),
	})
	return status, err
}

func (c *Cruncher) crunch(ctx context.Context) (Status, error) {
	outcome, err := c.requester.Fetch(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("%w: %v", ErrCrunchFailed, err)
	}

	var fetched Success
	switch o := outcome.(type) {
	case Success:
		fetched = o
	case Failure:
		return Status{}, fmt.Errorf("%w: upstream returned status %d", ErrCrunchFailed, o.ErrorCode)
	default:
		return Status{}, fmt.Errorf("%w: unrecognized outcome %T", ErrCrunchFailed, outcome)
	}

	if fetched.Number%2 != 0 {
		return Status{Verdict: VerdictRejected, Number: fetched.Number}, nil
	}

	victim, evicted := c.tummy.Add(RetainedFact{Number: fetched.Number, Fact: fetched.Fact})
	if evicted {
		return Status{Verdict: VerdictEvicted, Number: victim.Number}, nil
	}
	return Status{Verdict: VerdictStored, Number: fetched.Number}, nil
}

func (c *Cruncher) notify(evt Event) {
	for _, fn := range c.observers {
		fn(evt)
	}
}

// Tummy returns a copy of the retained facts in insertion order.
func (c *Cruncher) Tummy() []RetainedFact {
	return c.tummy.Items()
}

// Capacity returns the maximum tummy size.
func (c *Cruncher) Capacity() int {
	return c.tummy.Cap()
}

// Log returns the requester's log, or nil if the fetcher keeps none.
func (c *Cruncher) Log() []LogEntry {
	if a, ok := c.requester.(Auditor); ok {
		return a.Log()
	}
	return nil
}
