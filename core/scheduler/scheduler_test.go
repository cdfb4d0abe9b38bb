package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeJob struct {
	runs    atomic.Int32
	err     error
	started chan struct{}
	release chan struct{}
}

func (j *fakeJob) Name() string { return "fake" }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.started != nil {
		j.started <- struct{}{}
	}
	if j.release != nil {
		select {
		case <-j.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return j.err
}

func TestNextDelay(t *testing.T) {
	s := New(Config{Interval: 30 * time.Minute, Jitter: time.Minute}, &fakeJob{}, zap.NewNop())

	for i := 0; i < 100; i++ {
		d := s.NextDelay()
		assert.GreaterOrEqual(t, d, 30*time.Minute)
		assert.Less(t, d, 31*time.Minute)
	}

	s.SetJitter(func(time.Duration) time.Duration { return 15 * time.Second })
	assert.Equal(t, 30*time.Minute+15*time.Second, s.NextDelay())
}

func TestNextDelay_NoJitter(t *testing.T) {
	s := New(Config{Interval: time.Minute}, &fakeJob{}, zap.NewNop())
	assert.Equal(t, time.Minute, s.NextDelay())
}

func TestTrigger_RunsJob(t *testing.T) {
	job := &fakeJob{}
	s := New(Config{Interval: time.Minute}, job, zap.NewNop())

	require.NoError(t, s.Trigger(context.Background()))
	require.NoError(t, s.Trigger(context.Background()))
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestTrigger_PropagatesJobError(t *testing.T) {
	boom := errors.New("source unavailable")
	job := &fakeJob{err: boom}
	s := New(Config{Interval: time.Minute}, job, zap.NewNop())

	assert.ErrorIs(t, s.Trigger(context.Background()), boom)
	// The slot is released after a failed run.
	assert.ErrorIs(t, s.Trigger(context.Background()), boom)
}

func TestTrigger_SkipsWhileRunning(t *testing.T) {
	job := &fakeJob{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(Config{Interval: time.Minute}, job, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.Trigger(context.Background()) }()
	<-job.started

	assert.ErrorIs(t, s.Trigger(context.Background()), ErrRunInProgress)

	close(job.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestTrigger_RunTimeout(t *testing.T) {
	job := &fakeJob{release: make(chan struct{})}
	s := New(Config{Interval: time.Minute, RunTimeout: 20 * time.Millisecond}, job, zap.NewNop())

	err := s.Trigger(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStart_RunsOnStartAndOnTick(t *testing.T) {
	job := &fakeJob{err: errors.New("boom")}
	s := New(Config{Interval: 10 * time.Millisecond, RunOnStart: true}, job, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Failing runs do not stop the loop.
	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStart_SkipsOverlappingTicks(t *testing.T) {
	job := &fakeJob{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(Config{Interval: 5 * time.Millisecond, RunOnStart: true}, job, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	<-job.started
	// Several ticks pass while the first run is blocked.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
