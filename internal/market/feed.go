// Package market keeps the market-wide overview: top movers and the news feed.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/generation"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// MaxNews is the number of news items kept per refresh.
const MaxNews = 10

// Source provides market-wide data. *backend.Client implements it.
type Source interface {
	GetTopMovers(ctx context.Context) (json.RawMessage, error)
	GetNews(ctx context.Context) ([]model.NewsItem, error)
}

// Feed refreshes and holds the market overview. It is safe for concurrent use.
type Feed struct {
	source Source
	logger *logrus.Logger
	now    func() time.Time

	guard  generation.Guard
	latest atomic.Pointer[model.MarketOverview]
}

// NewFeed creates a feed reading from source.
func NewFeed(source Source, logger *logrus.Logger) *Feed {
	f := &Feed{
		source: source,
		logger: logger,
		now:    time.Now,
	}
	f.latest.Store(&model.MarketOverview{News: []model.NewsItem{}})
	return f
}

// Refresh fetches top movers and news in parallel and commits the result
// unless a newer refresh started meanwhile.
//
// Failures never surface as errors: a failed top movers fetch leaves TopMovers
// nil, and a failed news fetch (including a rate limited one) leaves News empty.
// At most MaxNews items are kept.
func (f *Feed) Refresh(ctx context.Context) model.MarketOverview {
	tok := f.guard.Begin()

	overview := model.MarketOverview{News: []model.NewsItem{}}

	var g errgroup.Group
	g.Go(func() error {
		movers, err := f.source.GetTopMovers(ctx)
		if err != nil {
			f.logFailure(err, "top movers")
			return nil
		}
		overview.TopMovers = movers
		return nil
	})
	g.Go(func() error {
		news, err := f.source.GetNews(ctx)
		if err != nil {
			f.logFailure(err, "news")
			return nil
		}
		if len(news) > MaxNews {
			news = news[:MaxNews]
		}
		overview.News = append(overview.News, news...)
		return nil
	})
	_ = g.Wait()

	overview.RefreshedAt = f.now()
	f.guard.Commit(tok, func() {
		if ctx.Err() != nil {
			return
		}
		f.latest.Store(&overview)
	})
	return overview
}

func (f *Feed) logFailure(err error, part string) {
	log := f.logger.WithError(err).WithField("part", part)
	if errors.Is(err, apperrors.ErrRateLimited) {
		log.Warn("Market data rate limit reached")
		return
	}
	log.Warn("Failed to load market data")
}

// Latest returns the last committed overview.
func (f *Feed) Latest() model.MarketOverview {
	return *f.latest.Load()
}

// Invalidate makes every in-flight refresh stale.
func (f *Feed) Invalidate() {
	f.guard.Invalidate()
}
