package facts

// Option configures a Requester or a Cruncher. Options that do not apply to
// the value being built are ignored.
type Option func(*options)

type options struct {
	client    HTTPClient
	sinks     []LogSink
	fetcher   Fetcher
	picker    func(n int) int
	observers []Observer
	safeTummy bool
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) { o.client = client }
}

// WithLogSink mirrors every LogEntry to sink.
func WithLogSink(sink LogSink) Option {
	return func(o *options) {
		if sink != nil {
			o.sinks = append(o.sinks, sink)
		}
	}
}

// WithFetcher makes the cruncher use f instead of building its own Requester.
func WithFetcher(f Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithPicker replaces the uniform random eviction index source.
func WithPicker(pick func(n int) int) Option {
	return func(o *options) { o.picker = pick }
}

// WithObserver registers fn to be called after every crunch cycle.
func WithObserver(fn Observer) Option {
	return func(o *options) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithConcurrencySafeTummy guards the tummy with a RWMutex so Tummy() may be
// read while a cycle is running.
func WithConcurrencySafeTummy() Option {
	return func(o *options) { o.safeTummy = true }
}
