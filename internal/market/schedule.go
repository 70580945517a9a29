package market

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler refreshes a Feed on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	feed   *Feed
	cancel context.CancelFunc
}

// Schedule refreshes feed once immediately and then on every activation of spec.
// spec uses the robfig/cron syntax, e.g. "@every 5m" or "*/10 * * * *".
// A refresh that is still running when the next activation fires is skipped.
func Schedule(ctx context.Context, feed *Feed, spec string, logger *logrus.Logger) (*Scheduler, error) {
	cronLogger := cron.PrintfLogger(logger.WithField("component", "market"))
	c := cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	ctx, cancel := context.WithCancel(ctx)
	if _, err := c.AddFunc(spec, func() { feed.Refresh(ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid market schedule %q: %w", spec, err)
	}

	go feed.Refresh(ctx)
	c.Start()
	logger.WithField("schedule", spec).Info("Market feed scheduled")

	return &Scheduler{cron: c, feed: feed, cancel: cancel}, nil
}

// Stop ends the schedule and waits for a running refresh to return.
// No overview is committed after Stop returns.
func (s *Scheduler) Stop() {
	s.cancel()
	s.feed.Invalidate()
	<-s.cron.Stop().Done()
}
