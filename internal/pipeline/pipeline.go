// Package pipeline keeps the published portfolio view current.
//
// A refresh cycle fetches the holdings, fetches one quote per held symbol in
// parallel, computes the summary and publishes the resulting snapshot. Every
// cycle takes a generation token when it starts; only a cycle whose token is
// still current when it finishes may publish. Starting a newer cycle or
// stopping the refresh loop makes every older cycle stale, and stale results
// are dropped without side effects.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/generation"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/valuation"
)

// DefaultQuoteConcurrency bounds the parallel quote requests of one cycle.
const DefaultQuoteConcurrency = 8

// HoldingsSource returns the holdings of the current user.
type HoldingsSource interface {
	GetHoldings(ctx context.Context) ([]model.Holding, error)
}

// QuoteSource returns the latest quote of a symbol.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (model.Quote, error)
}

// Source is everything a refresh cycle reads. *backend.Client implements it.
type Source interface {
	HoldingsSource
	QuoteSource
}

// Sink receives every published snapshot.
// Sinks run synchronously while the snapshot is being published and must not
// call back into the Pipeline or stop its refresh loop.
type Sink func(model.Snapshot)

// Pipeline refreshes and publishes portfolio snapshots. It is safe for concurrent use.
type Pipeline struct {
	source      Source
	logger      *logrus.Logger
	concurrency int
	now         func() time.Time

	guard  generation.Guard
	latest atomic.Pointer[model.Snapshot]

	sinksMu  sync.Mutex
	sinks    map[uint64]Sink
	nextSink uint64
}

// New creates a pipeline reading from source.
// concurrency bounds the parallel quote requests; values below 1 select DefaultQuoteConcurrency.
func New(source Source, logger *logrus.Logger, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = DefaultQuoteConcurrency
	}
	p := &Pipeline{
		source:      source,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
		sinks:       make(map[uint64]Sink),
	}
	empty := model.EmptySnapshot()
	p.latest.Store(&empty)
	return p
}

// Latest returns the most recently published snapshot.
// Before the first publication it is the empty snapshot with generation 0.
// The returned slices and maps are shared and must not be modified.
func (p *Pipeline) Latest() model.Snapshot {
	return *p.latest.Load()
}

// Subscribe registers fn for every future publication and returns a function that removes it.
// After the returned function has returned, fn is not called again.
func (p *Pipeline) Subscribe(fn Sink) (unsubscribe func()) {
	p.sinksMu.Lock()
	id := p.nextSink
	p.nextSink++
	p.sinks[id] = fn
	p.sinksMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.sinksMu.Lock()
			delete(p.sinks, id)
			p.sinksMu.Unlock()
		})
	}
}

// RefreshOnce runs one refresh cycle and returns the snapshot it produced.
//
// A failed quote is logged and leaves its symbol out of the quotes map, which
// values the position at price 0. A failed holdings fetch publishes the empty
// snapshot (marked Failed) and returns an error wrapping
// apperrors.ErrFailedToRetrieveHoldings.
//
// When a newer cycle started, the refresh loop was stopped or ctx was
// cancelled before the cycle finished, nothing is published and the error is nil.
func (p *Pipeline) RefreshOnce(ctx context.Context) (model.Snapshot, error) {
	tok := p.guard.Begin()
	cycleID := uuid.NewString()
	ctx = backend.WithRequestID(ctx, cycleID)
	log := p.logger.WithFields(logrus.Fields{
		"cycle":      cycleID,
		"generation": tok.Generation(),
	})
	start := p.now()

	holdings, err := p.source.GetHoldings(ctx)
	if err != nil {
		snap := model.EmptySnapshot()
		snap.Generation = tok.Generation()
		snap.CycleID = cycleID
		snap.RefreshedAt = p.now()
		snap.Failed = true

		if !p.publish(ctx, tok, snap) {
			log.WithError(err).Debug("Discarding stale holdings failure")
			return snap, nil
		}
		log.WithError(err).Error("Failed to retrieve holdings")
		return snap, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}

	held := valuation.HeldPositions(holdings)
	quotes := p.fetchQuotes(ctx, log, valuation.Symbols(held))

	snap := model.Snapshot{
		Generation:  tok.Generation(),
		CycleID:     cycleID,
		Holdings:    held,
		Quotes:      quotes,
		Summary:     valuation.Summarize(held, quotes),
		RefreshedAt: p.now(),
	}

	if !p.publish(ctx, tok, snap) {
		log.Debug("Discarding stale refresh")
		return snap, nil
	}

	log.WithFields(logrus.Fields{
		"holdings": len(held),
		"quotes":   len(quotes),
		"duration": p.now().Sub(start).String(),
	}).Debug("Portfolio refreshed")
	return snap, nil
}

// fetchQuotes requests every symbol independently. Failed symbols are absent from the result.
func (p *Pipeline) fetchQuotes(ctx context.Context, log *logrus.Entry, symbols []string) map[string]model.Quote {
	var (
		mu     sync.Mutex
		quotes = make(map[string]model.Quote, len(symbols))
		g      errgroup.Group
	)
	g.SetLimit(p.concurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			q, err := p.source.GetQuote(ctx, symbol)
			if err != nil {
				log.WithError(fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuote, err)).
					WithField("symbol", symbol).Warn("Quote unavailable, valuing at 0")
				return nil
			}
			mu.Lock()
			quotes[symbol] = q
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return quotes
}

// publish commits snap if tok is still current and ctx is not cancelled,
// then delivers it to every sink.
func (p *Pipeline) publish(ctx context.Context, tok generation.Token, snap model.Snapshot) bool {
	published := false
	p.guard.Commit(tok, func() {
		if ctx.Err() != nil {
			return
		}
		p.latest.Store(&snap)
		published = true

		p.sinksMu.Lock()
		defer p.sinksMu.Unlock()
		for _, fn := range p.sinks {
			fn(snap)
		}
	})
	return published
}
