// Package refresh drives the periodic fetch-and-merge cycles that keep the
// live views fresh.
package refresh

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josselin06/Borobo-stage-2025/internal/common"
	"github.com/josselin06/Borobo-stage-2025/internal/logging"
)

// CycleFunc performs one full fetch-and-merge cycle. Returning
// common.ErrSessionExpired stops the scheduler and signals logout upward;
// any other error is logged and polling continues with the previous snapshot
// left in place.
type CycleFunc func(ctx context.Context) error

// newTicker is a test seam: tests replace it with a hand-driven channel to
// simulate the clock.
var newTicker = func(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Scheduler runs an immediate cycle on Start and then one cycle per interval
// tick until Stop. Cycles never overlap: the loop is serial, so a tick
// arriving while a cycle is still in flight is simply skipped. Stop cancels
// the loop and waits for any in-flight cycle to finish; no cycle starts
// after Stop returns.
type Scheduler struct {
	interval  time.Duration
	cycle     CycleFunc
	onExpired func()
	log       logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler builds a scheduler. An interval <= 0 means "initial cycle
// only": the view loads once and never polls. onExpired may be nil; it is
// invoked from the refresh goroutine and must not call Stop.
func NewScheduler(interval time.Duration, cycle CycleFunc, onExpired func(), log logging.Logger) *Scheduler {
	return &Scheduler{interval: interval, cycle: cycle, onExpired: onExpired, log: log}
}

// Start launches the refresh loop. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
}

// Stop cancels the loop and waits until it has fully wound down, including
// any cycle still in flight. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	if !s.runCycle(ctx) {
		return
	}
	if s.interval <= 0 {
		return
	}

	tick, stop := newTicker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			if !s.runCycle(ctx) {
				return
			}
		}
	}
}

// runCycle executes one cycle and reports whether the loop should continue.
func (s *Scheduler) runCycle(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	cycleID := uuid.NewString()
	start := time.Now()

	err := s.cycle(ctx)
	switch {
	case err == nil:
		s.log.Debug(ctx, "refresh cycle done", "cycle_id", cycleID, "elapsed", time.Since(start))
		return true
	case errors.Is(err, common.ErrSessionExpired):
		s.log.Warn(ctx, "session expired, stopping refresh", "cycle_id", cycleID)
		if s.onExpired != nil {
			s.onExpired()
		}
		return false
	case ctx.Err() != nil:
		// Torn down mid-cycle; the error is just the cancellation surfacing.
		return false
	default:
		s.log.Error(ctx, "refresh cycle failed", "cycle_id", cycleID, "error", err)
		return true
	}
}
