// Package scheduler runs a job periodically with at most one run in flight.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"portfolio_backend/internal/platform/logger"
)

// DefaultInterval is used when New receives a non-positive interval.
const DefaultInterval = 60 * time.Second

// ErrRunInFlight is returned by TryRun while another run has not finished.
var ErrRunInFlight = errors.New("a run is already in flight")

// Job is the unit of work executed on every tick.
type Job[T any] func(ctx context.Context) (T, error)

// Scheduler は一定間隔でジョブを実行します。実行中に次のティックが来た場合はスキップします。
type Scheduler[T any] struct {
	name     string
	interval time.Duration
	job      Job[T]

	running atomic.Bool
	wg      sync.WaitGroup
}

// New creates a Scheduler. name only appears in logs.
func New[T any](name string, interval time.Duration, job Job[T]) *Scheduler[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler[T]{name: name, interval: interval, job: job}
}

// Interval returns the tick period.
func (s *Scheduler[T]) Interval() time.Duration {
	return s.interval
}

// Running reports whether a run is in flight.
func (s *Scheduler[T]) Running() bool {
	return s.running.Load()
}

// TryRun executes the job now unless a run is already in flight,
// in which case it returns ErrRunInFlight without side effects.
func (s *Scheduler[T]) TryRun(ctx context.Context) (T, error) {
	if !s.running.CompareAndSwap(false, true) {
		var zero T
		return zero, ErrRunInFlight
	}
	defer s.running.Store(false)
	return s.job(ctx)
}

// Run ticks until ctx is cancelled, then waits for an in-flight run to return.
// Each tick runs in its own goroutine so a slow run never delays the ticker.
func (s *Scheduler[T]) Run(ctx context.Context) error {
	log := logger.Get()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Infow("scheduler started", "name", s.name, "interval", s.interval.String())
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			log.Infow("scheduler stopped", "name", s.name)
			return nil
		case <-ticker.C:
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.tick(ctx)
			}()
		}
	}
}

func (s *Scheduler[T]) tick(ctx context.Context) {
	_, err := s.TryRun(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrRunInFlight):
		logger.Get().Debugw("previous run still in flight, tick skipped", "name", s.name)
	case ctx.Err() != nil:
		// シャットダウン中の失敗は想定内
		logger.Get().Infow("run interrupted by shutdown", "name", s.name, "error", err)
	default:
		logger.Get().Errorw("scheduled run failed", "name", s.name, "error", err)
	}
}
