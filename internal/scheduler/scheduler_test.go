package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"number-cruncher/internal/facts"

	"github.com/stretchr/testify/require"
)

type countingCruncher struct {
	calls atomic.Int32
}

func (c *countingCruncher) Crunch(context.Context) (facts.Status, error) {
	c.calls.Add(1)
	return facts.Status{Verdict: facts.VerdictRejected, Number: 1}, nil
}

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := New("every now and then", &countingCruncher{}, 0)
	require.Error(t, err)
}

func TestScheduler_RunsJob(t *testing.T) {
	target := &countingCruncher{}
	s, err := New("@every 1s", target, time.Second)
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return !s.Next().IsZero() }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestScheduler_RunOnceAppliesTimeout(t *testing.T) {
	var deadlineSet bool
	target := cruncherFunc(func(ctx context.Context) (facts.Status, error) {
		_, deadlineSet = ctx.Deadline()
		return facts.Status{}, nil
	})
	s, err := New("@every 1h", target, 50*time.Millisecond)
	require.NoError(t, err)

	s.runOnce()
	require.True(t, deadlineSet)
}

type cruncherFunc func(ctx context.Context) (facts.Status, error)

func (f cruncherFunc) Crunch(ctx context.Context) (facts.Status, error) { return f(ctx) }
