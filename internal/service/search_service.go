package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/generation"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// SearchService looks up stocks by symbol or name, restricted to US listings.
type SearchService struct {
	client *backend.Client
	logger *logrus.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(client *backend.Client, logger *logrus.Logger) *SearchService {
	return &SearchService{client: client, logger: logger}
}

// Search returns the US-listed candidates matching q.
// An empty query returns no results without calling the backend, and a failed
// search degrades to no results.
func (s *SearchService) Search(ctx context.Context, q string) []model.SearchResult {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.SearchResult{}
	}

	results, err := s.client.SearchStocks(ctx, q)
	if err != nil {
		s.logger.WithError(err).WithField("query", q).Warn("Stock search failed")
		return []model.SearchResult{}
	}
	return USListings(results)
}

// USListings keeps the results listed in the United States or on NYSE or NASDAQ.
func USListings(results []model.SearchResult) []model.SearchResult {
	us := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Country == "United States" ||
			strings.Contains(r.Exchange, "NYSE") ||
			strings.Contains(r.Exchange, "NASDAQ") {
			us = append(us, r)
		}
	}
	return us
}

// SearchResults is a delivered search: the query and its results.
type SearchResults struct {
	Query   string               `json:"query"`
	Results []model.SearchResult `json:"results"`
}

// Debouncer delays searches while the query is still changing.
// A query is searched once no newer query arrived for the debounce window,
// and results are only delivered for the latest query.
type Debouncer struct {
	search  *SearchService
	delay   time.Duration
	deliver func(SearchResults)

	ctx    context.Context
	cancel context.CancelFunc
	guard  generation.Guard

	mu     sync.Mutex
	timer  *time.Timer
	latest SearchResults
}

// NewDebouncer creates a Debouncer. deliver, if non-nil, is called with every
// delivered result in addition to it becoming Latest; it must not call Submit or Close.
func NewDebouncer(search *SearchService, delay time.Duration, deliver func(SearchResults)) *Debouncer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer{
		search:  search,
		delay:   delay,
		deliver: deliver,
		ctx:     ctx,
		cancel:  cancel,
		latest:  SearchResults{Results: []model.SearchResult{}},
	}
}

// Submit replaces the pending query with q.
// A blank query clears the results immediately.
func (d *Debouncer) Submit(q string) {
	tok := d.guard.Begin()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if strings.TrimSpace(q) == "" {
		d.mu.Unlock()
		d.commit(tok, SearchResults{Query: q, Results: []model.SearchResult{}})
		return
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if !tok.Current() {
			return
		}
		results := d.search.Search(d.ctx, q)
		d.commit(tok, SearchResults{Query: q, Results: results})
	})
	d.mu.Unlock()
}

func (d *Debouncer) commit(tok generation.Token, res SearchResults) {
	d.guard.Commit(tok, func() {
		if d.ctx.Err() != nil {
			return
		}
		d.mu.Lock()
		d.latest = res
		d.mu.Unlock()
		if d.deliver != nil {
			d.deliver(res)
		}
	})
}

// Latest returns the most recently delivered search.
func (d *Debouncer) Latest() SearchResults {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Close drops the pending query. No results are delivered after Close returns.
func (d *Debouncer) Close() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.cancel()
	d.guard.Invalidate()
}

