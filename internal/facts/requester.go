// Package facts fetches number trivia and keeps the even-numbered facts in a
// bounded tummy with random eviction.
package facts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
)

// DefaultEndpoint is used when Config.Endpoint is empty.
const DefaultEndpoint = "http://numbersapi.com/random/math"

const maxBodyBytes = 64 << 10

var (
	// ErrTransport means no usable response was received.
	ErrTransport = errors.New("fact transport failed")
	// ErrUnparsableResponse means a 200 body did not start with an integer or
	// was longer than 64 KiB.
	ErrUnparsableResponse = errors.New("fact response has no leading integer")
)

// now is a small indirection to allow test stubbing of call times.
var now = time.Now

// HTTPClient allows injecting mock HTTP clients for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// LogSink receives a copy of every LogEntry as it is appended.
type LogSink interface {
	Record(entry LogEntry) error
}

// Config configures the requester.
type Config struct {
	// Endpoint is the trivia URL. Empty means DefaultEndpoint.
	Endpoint string
	// Timeout applies to the default HTTP client only.
	Timeout time.Duration
}

// Requester performs fetches against one endpoint and keeps an append-only log.
// It is not safe for concurrent use.
type Requester struct {
	endpoint   string
	client     HTTPClient
	sinks      []LogSink
	callNumber int
	log        []LogEntry
}

// NewRequester builds a requester. WithHTTPClient and WithLogSink apply.
func NewRequester(cfg Config, opts ...Option) *Requester {
	o := buildOptions(opts)
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := o.client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Requester{
		endpoint: endpoint,
		client:   client,
		sinks:    o.sinks,
	}
}

// Endpoint returns the URL this requester calls.
func (r *Requester) Endpoint() string {
	return r.endpoint
}

// Log returns a copy of every entry logged so far, oldest first.
func (r *Requester) Log() []LogEntry {
	out := make([]LogEntry, len(r.log))
	copy(out, r.log)
	return out
}

// Fetch performs one GET against the endpoint.
//
// A non-200 status is a Failure outcome, not an error. An error is returned
// only when no response arrived or a 200 body cannot be parsed (including
// bodies over 64 KiB, which are never truncated into a fact); those attempts
// are still logged as FAILURE so request numbers stay contiguous.
func (r *Requester) Fetch(ctx context.Context) (FetchOutcome, error) {
	callTime := now()
	r.callNumber++
	seq := r.callNumber

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		r.append(failureEntry(seq, callTime, r.endpoint, 0))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.append(failureEntry(seq, callTime, r.endpoint, 0))
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		r.append(failureEntry(seq, callTime, r.endpoint, resp.StatusCode))
		return Failure{ErrorCode: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		r.append(failureEntry(seq, callTime, r.endpoint, resp.StatusCode))
		return nil, fmt.Errorf("%w: reading body: %v", ErrTransport, err)
	}
	if len(body) > maxBodyBytes {
		r.append(failureEntry(seq, callTime, r.endpoint, resp.StatusCode))
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrUnparsableResponse, maxBodyBytes)
	}

	fact := string(body)
	number, err := leadingInt(fact)
	if err != nil {
		r.append(failureEntry(seq, callTime, r.endpoint, resp.StatusCode))
		return nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}

	r.append(LogEntry{
		RequestNumber: seq,
		CallTime:      callTime,
		EndPoint:      r.endpoint,
		Result:        ResultSuccess,
		Number:        &number,
	})
	return Success{Number: number, Fact: fact}, nil
}

func (r *Requester) append(entry LogEntry) {
	r.log = append(r.log, entry)
	if glog.V(2) {
		glog.Infof("fetch #%d %s %s", entry.RequestNumber, entry.EndPoint, entry.Result)
	}
	for _, sink := range r.sinks {
		if err := sink.Record(entry); err != nil {
			glog.Warningf("log sink rejected fetch #%d: %v", entry.RequestNumber, err)
		}
	}
}

func failureEntry(seq int, callTime time.Time, endpoint string, code int) LogEntry {
	return LogEntry{
		RequestNumber: seq,
		CallTime:      callTime,
		EndPoint:      endpoint,
		Result:        ResultFailure,
		ErrorCode:     &code,
	}
}

// leadingInt parses the first whitespace-delimited token of text.
func leadingInt(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, errors.New("empty body")
	}
	return strconv.Atoi(fields[0])
}
