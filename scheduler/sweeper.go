// Package scheduler runs the background sweeps of the article lifecycle: the
// scheduled publisher promotes due articles to published, and the retention
// scheduler permanently erases trashed articles past the retention window.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"lifecycle-cms/errs"
)

// sweeper drives a periodic sweep on a ticker with clean start/stop
// semantics. Each tick runs one full sweep; ticks never overlap because the
// loop is single-goroutine.
type sweeper struct {
	name     string
	interval time.Duration
	log      *zap.Logger
	sweep    func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func (s *sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.sweep(runCtx)
			}
		}
	}()

	s.log.Info("sweeper started",
		zap.String("sweeper", s.name),
		zap.Duration("interval", s.interval))
	return nil
}

func (s *sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.log.Info("sweeper stopped", zap.String("sweeper", s.name))
	return nil
}

// retryTransient runs op, retrying only transient storage failures with
// exponential backoff. Any other error kind is terminal for this sweep and
// left to the next one.
func retryTransient(ctx context.Context, attempts int, base time.Duration, op func() error) error {
	var err error
	delay := base
	for i := 0; i < attempts; i++ {
		err = op()
		if err == nil || !errors.Is(err, errs.ErrStorageUnavailable) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}
