package scheduler

import (
	"context"
	"fmt"
	"time"

	"number-cruncher/internal/facts"

	"github.com/golang/glog"
	rcron "github.com/robfig/cron/v3"
)

// Cruncher is the part of the cruncher the scheduler drives.
type Cruncher interface {
	Crunch(ctx context.Context) (facts.Status, error)
}

// Scheduler runs crunch cycles on a cron schedule.
type Scheduler struct {
	cron    *rcron.Cron
	target  Cruncher
	timeout time.Duration
	entryID rcron.EntryID
}

// New registers one crunch job for spec. spec accepts standard 5-field cron
// expressions and descriptors such as "@every 30s". timeout bounds each cycle;
// zero means no bound.
func New(spec string, target Cruncher, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		cron:    rcron.New(),
		target:  target,
		timeout: timeout,
	}
	// a tick that fires while a cycle is still running is skipped
	job := rcron.NewChain(rcron.SkipIfStillRunning(rcron.DiscardLogger)).Then(rcron.FuncJob(s.runOnce))
	id, err := s.cron.AddJob(spec, job)
	if err != nil {
		return nil, fmt.Errorf("invalid crunch schedule %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	glog.Infof("[scheduler] crunching on schedule")
}

// Stop halts the schedule and waits for a running cycle to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		glog.Warningf("[scheduler] stop timed out waiting for running cycle")
	}
}

// Next returns the next scheduled run time.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	status, err := s.target.Crunch(ctx)
	if err != nil {
		glog.Warningf("[scheduler] crunch failed: %v", err)
		return
	}
	glog.Infof("[scheduler] %s", status.Exclaim())
}
