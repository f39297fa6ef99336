package facts

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSyncCruncher_ConcurrentCyclesKeepInvariants(t *testing.T) {
	var n atomic.Int64
	client := &mockHTTPClient{DoFunc: func(*http.Request) (*http.Response, error) {
		num := n.Add(1)
		body := strconv.FormatInt(num, 10) + " is a number."
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	}}
	c, err := NewCruncher(5, Config{}, WithHTTPClient(client))
	require.NoError(t, err)
	s := NewSyncCruncher(c)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := s.Crunch(context.Background()); err != nil {
					t.Error(err)
				}
				_ = s.Tummy()
			}
		}()
	}
	wg.Wait()

	require.Len(t, s.Tummy(), 5)
	require.Equal(t, 5, s.Capacity())
	log := s.Log()
	require.Len(t, log, 200)
	for i, entry := range log {
		require.Equal(t, i+1, entry.RequestNumber)
	}
	for _, f := range s.Tummy() {
		require.Zero(t, f.Number%2)
	}
}

// blockingFetcher parks inside Fetch until release is closed.
type blockingFetcher struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingFetcher) Fetch(ctx context.Context) (FetchOutcome, error) {
	close(b.entered)
	<-b.release
	return Success{Number: 2, Fact: "two"}, nil
}

func TestSyncCruncher_TummyReadableDuringFetch(t *testing.T) {
	f := &blockingFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	c, err := NewCruncher(2, Config{}, WithFetcher(f), WithConcurrencySafeTummy())
	require.NoError(t, err)
	s := NewSyncCruncher(c)

	done := make(chan error, 1)
	go func() {
		_, err := s.Crunch(context.Background())
		done <- err
	}()
	<-f.entered

	read := make(chan []RetainedFact, 1)
	go func() { read <- s.Tummy() }()
	select {
	case tummy := <-read:
		require.Empty(t, tummy)
	case <-time.After(time.Second):
		close(f.release)
		t.Fatal("tummy read waited for the running cycle")
	}
	require.Equal(t, 2, s.Capacity())

	close(f.release)
	require.NoError(t, <-done)
	require.Equal(t, []RetainedFact{{Number: 2, Fact: "two"}}, s.Tummy())
}

func TestSyncCruncher_UnsafeTummyWaitsForCycle(t *testing.T) {
	f := &blockingFetcher{entered: make(chan struct{}), release: make(chan struct{})}
	c, err := NewCruncher(2, Config{}, WithFetcher(f))
	require.NoError(t, err)
	s := NewSyncCruncher(c)

	go func() { _, _ = s.Crunch(context.Background()) }()
	<-f.entered

	read := make(chan []RetainedFact, 1)
	go func() { read <- s.Tummy() }()
	select {
	case <-read:
		t.Fatal("tummy read did not wait for the running cycle")
	case <-time.After(50 * time.Millisecond):
	}

	close(f.release)
	require.Equal(t, []RetainedFact{{Number: 2, Fact: "two"}}, <-read)
}
