package service

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/generation"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/validation"
)

// StockService loads everything shown on a stock's detail view.
type StockService struct {
	client *backend.Client
	logger *logrus.Logger

	guard   generation.Guard
	mu      sync.RWMutex
	current *model.StockDetails
}

// NewStockService creates a new StockService.
func NewStockService(client *backend.Client, logger *logrus.Logger) *StockService {
	return &StockService{
		client: client,
		logger: logger,
	}
}

// Details loads the quote, price series, holding, fundamentals and financials of symbol concurrently.
//
// Each piece is optional: a failed fetch is logged and leaves the piece nil,
// and a missing holding is reported as a zero holding. Only invalid input is an error.
// The result becomes Current unless a newer Details call started in the meantime.
//
// Parameters:
//   - ctx: Request context
//   - symbol: Ticker symbol, normalized to upper case
//   - interval: Series interval; empty selects backend.DefaultInterval
func (s *StockService) Details(ctx context.Context, symbol, interval string) (model.StockDetails, error) {
	symbol, err := validation.NormalizeSymbol(symbol)
	if err != nil {
		return model.StockDetails{}, err
	}
	interval, err = validation.NormalizeInterval(interval)
	if err != nil {
		return model.StockDetails{}, err
	}

	tok := s.guard.Begin()
	log := s.logger.WithField("symbol", symbol)

	details := model.StockDetails{
		Symbol:   symbol,
		Interval: interval,
		Holding:  model.Holding{StockSymbol: symbol},
	}

	var g errgroup.Group
	g.Go(func() error {
		q, err := s.client.GetQuote(ctx, symbol)
		if err != nil {
			log.WithError(err).Warn("Failed to load quote")
			return nil
		}
		details.Quote = &q
		return nil
	})
	g.Go(func() error {
		series, err := s.client.GetTimeSeries(ctx, symbol, interval)
		if err != nil {
			log.WithError(err).Warn("Failed to load price series")
			return nil
		}
		details.Series = &series
		return nil
	})
	g.Go(func() error {
		h, err := s.client.GetHolding(ctx, symbol)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
		case err != nil:
			log.WithError(err).Debug("Failed to load holding")
		default:
			h.StockSymbol = symbol
			details.Holding = h
		}
		return nil
	})
	g.Go(func() error {
		raw, err := s.client.GetFundamentals(ctx, symbol)
		if err != nil {
			log.WithError(err).Debug("Failed to load fundamentals")
			return nil
		}
		details.Fundamentals = raw
		return nil
	})
	g.Go(func() error {
		raw, err := s.client.GetFinancials(ctx, symbol)
		if err != nil {
			log.WithError(err).Debug("Failed to load financials")
			return nil
		}
		details.Financials = raw
		return nil
	})
	_ = g.Wait()

	s.guard.Commit(tok, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.current = &details
	})
	return details, nil
}

// Current returns the details committed by the most recent Details call to finish
// without being superseded.
func (s *StockService) Current() (model.StockDetails, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.StockDetails{}, false
	}
	return *s.current, true
}
