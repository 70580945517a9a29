package pipeline

import (
	"context"
	"sync"
	"time"
)

// Subscription is a running refresh loop.
type Subscription struct {
	pipeline *Pipeline
	ticker   *time.Ticker
	cancel   context.CancelFunc
	trigger  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// StartRefreshLoop runs one refresh cycle immediately and then one per interval
// until the returned subscription is stopped or ctx is cancelled.
// Every tick starts its own cycle, so a cycle that hangs never delays the next one.
// interval must be positive.
func (p *Pipeline) StartRefreshLoop(ctx context.Context, interval time.Duration) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		pipeline: p,
		ticker:   time.NewTicker(interval),
		cancel:   cancel,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	p.logger.WithField("interval", interval.String()).Info("Starting portfolio refresh loop")
	go s.run(ctx)
	return s
}

func (s *Subscription) run(ctx context.Context) {
	defer close(s.done)

	go s.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ticker.C:
			go s.cycle(ctx)
		case <-s.trigger:
			go s.cycle(ctx)
		}
	}
}

func (s *Subscription) cycle(ctx context.Context) {
	// Errors are logged by RefreshOnce and surface through the published state.
	_, _ = s.pipeline.RefreshOnce(ctx)
}

// Trigger requests an extra cycle without waiting for the next tick.
// It never blocks; requests made while one is pending are merged.
// After Stop, Trigger does nothing.
func (s *Subscription) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop ends the loop. In-flight cycles become stale and no sink is called
// after Stop returns. Stop is idempotent and must not be called from a Sink.
func (s *Subscription) Stop() {
	s.once.Do(func() {
		s.ticker.Stop()
		s.cancel()
		s.pipeline.guard.Invalidate()
		<-s.done
		s.pipeline.logger.Info("Portfolio refresh loop stopped")
	})
}
