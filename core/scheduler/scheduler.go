package scheduler

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrRunInProgress is returned by Trigger when the previous run is still active.
var ErrRunInProgress = errors.New("run already in progress")

// Job is a unit of work the scheduler runs periodically.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs a Job every Interval plus a random jitter. At most one run
// is active at a time; triggers that find a run in progress are skipped.
type Scheduler struct {
	cfg    Config
	job    Job
	logger *zap.Logger
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	jitter func(max time.Duration) time.Duration
}

// New creates a scheduler for job.
func New(cfg Config, job Job, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		job:    job,
		logger: logger.With(zap.String("job", job.Name())),
		sem:    semaphore.NewWeighted(1),
		jitter: randomJitter,
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return rand.N(max)
}

// SetJitter replaces the jitter source.
func (s *Scheduler) SetJitter(fn func(max time.Duration) time.Duration) {
	s.jitter = fn
}

// NextDelay returns the wait before the next trigger.
func (s *Scheduler) NextDelay() time.Duration {
	return s.cfg.Interval + s.jitter(s.cfg.Jitter)
}

// Trigger runs the job once unless a run is already active, in which case
// it returns ErrRunInProgress without waiting.
func (s *Scheduler) Trigger(ctx context.Context) error {
	if !s.sem.TryAcquire(1) {
		return ErrRunInProgress
	}
	defer s.sem.Release(1)

	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("Run started")
	if err := s.job.Run(ctx); err != nil {
		s.logger.Error("Run failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	s.logger.Info("Run finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Start blocks until ctx is cancelled, triggering the job on every tick.
// Each trigger runs in its own goroutine so a slow run never delays the
// clock; overlapping triggers are dropped. Job errors never stop the loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("jitter", s.cfg.Jitter),
		zap.Bool("run_on_start", s.cfg.RunOnStart),
	)

	if s.cfg.RunOnStart {
		s.fire(ctx)
	}

	timer := time.NewTimer(s.NextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("Scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			s.fire(ctx)
			timer.Reset(s.NextDelay())
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.Trigger(ctx); errors.Is(err, ErrRunInProgress) {
			s.logger.Warn("Previous run still active, skipping trigger")
		}
	}()
}
