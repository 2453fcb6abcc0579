package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// Scheduler runs keyed callbacks after a delay. Scheduling a key that is
// already pending replaces the earlier timer.
type Scheduler struct {
	clock    clockwork.Clock
	mu       sync.Mutex
	timers   map[string]clockwork.Timer
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler driven by clock
func NewScheduler(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:    clock,
		timers:   make(map[string]clockwork.Timer),
		shutdown: make(chan struct{}),
	}
}

// Schedule runs fn once after d under key
func (s *Scheduler) Schedule(key string, d time.Duration, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}

	logger.FromContext(context.Background()).Debug(LogMsgTaskScheduled, "key", key, "delay", d)

	var timer clockwork.Timer
	timer = s.clock.AfterFunc(d, func() {
		select {
		case <-s.shutdown:
			return
		default:
		}

		s.mu.Lock()
		if s.timers[key] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.wg.Add(1)
		s.mu.Unlock()

		defer s.wg.Done()
		fn(context.Background())
	})
	s.timers[key] = timer
}

// Cancel stops the pending callback for key, reporting whether one existed
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer, ok := s.timers[key]
	if !ok {
		return false
	}
	timer.Stop()
	delete(s.timers, key)
	return true
}

// Pending reports whether a callback is waiting under key
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

// Shutdown cancels every pending callback and waits for running ones
func (s *Scheduler) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgSchedulerShutdown)

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.shutdown)
	}
	for key, timer := range s.timers {
		timer.Stop()
		log.Debug(LogMsgTaskCancelled, "key", key)
	}
	s.timers = make(map[string]clockwork.Timer)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgSchedulerStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgSchedulerTimeout)
		return ctx.Err()
	}
}
