package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
	"github.com/ndewijer/Portfolio-Dashboard/internal/validation"
)

// Refresher requests an out-of-band portfolio refresh.
// *pipeline.Subscription implements it.
type Refresher interface {
	Trigger()
}

// TradeService handles buying, selling and topping up the balance.
// Input is validated before any request is sent. Rejections by the backend are
// returned unchanged; nothing is retried.
type TradeService struct {
	client    *backend.Client
	session   *session.Manager
	refresher Refresher
	logger    *logrus.Logger
}

// NewTradeService creates a new TradeService.
// refresher may be nil, in which case successful trades do not trigger a refresh.
func NewTradeService(
	client *backend.Client,
	sess *session.Manager,
	refresher Refresher,
	logger *logrus.Logger,
) *TradeService {
	return &TradeService{
		client:    client,
		session:   sess,
		refresher: refresher,
		logger:    logger,
	}
}

// Buy purchases shares at the given price.
// The cost is checked against the cached balance first; the backend has the final word.
//
// Returns:
//   - a validation error for a non-positive quantity or price
//   - apperrors.ErrNoSession without a logged-in user
//   - apperrors.ErrInsufficientBalance when the cached balance does not cover the cost
func (s *TradeService) Buy(ctx context.Context, req model.TradeRequest) (model.TradeResponse, error) {
	req, err := validation.ValidateTrade(req)
	if err != nil {
		return model.TradeResponse{}, err
	}
	user, ok := s.session.User()
	if !ok {
		return model.TradeResponse{}, apperrors.ErrNoSession
	}

	cost := decimal.NewFromFloat(req.Quantity).Mul(decimal.NewFromFloat(req.Price))
	if user.Balance.LessThan(cost) {
		return model.TradeResponse{}, fmt.Errorf("%w: cost %s exceeds balance %s",
			apperrors.ErrInsufficientBalance, cost.StringFixed(2), user.Balance.StringFixed(2))
	}

	resp, err := s.client.Buy(ctx, req)
	if err != nil {
		return model.TradeResponse{}, fmt.Errorf("buy %s: %w", req.Symbol, err)
	}
	s.settle(ctx, resp, req)
	return resp, nil
}

// Sell sells shares at the given price.
// The quantity is checked against the current holding, where a missing holding counts as zero shares.
//
// Returns:
//   - a validation error for a non-positive quantity or price
//   - apperrors.ErrNoSession without a logged-in user
//   - apperrors.ErrInsufficientShares when fewer shares are held than requested
func (s *TradeService) Sell(ctx context.Context, req model.TradeRequest) (model.TradeResponse, error) {
	req, err := validation.ValidateTrade(req)
	if err != nil {
		return model.TradeResponse{}, err
	}
	if !s.session.Authenticated() {
		return model.TradeResponse{}, apperrors.ErrNoSession
	}

	held, err := s.heldShares(ctx, req.Symbol)
	if err != nil {
		return model.TradeResponse{}, err
	}
	if held.LessThan(decimal.NewFromFloat(req.Quantity)) {
		return model.TradeResponse{}, fmt.Errorf("%w: %s held, %v requested",
			apperrors.ErrInsufficientShares, held.String(), req.Quantity)
	}

	resp, err := s.client.Sell(ctx, req)
	if err != nil {
		return model.TradeResponse{}, fmt.Errorf("sell %s: %w", req.Symbol, err)
	}
	s.settle(ctx, resp, req)
	return resp, nil
}

// heldShares returns the quantity held in symbol, zero when there is no holding.
func (s *TradeService) heldShares(ctx context.Context, symbol string) (decimal.Decimal, error) {
	holding, err := s.client.GetHolding(ctx, symbol)
	if errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to check holding %s: %w", symbol, err)
	}
	return holding.Quantity.Decimal, nil
}

// settle caches the updated user and refreshes the portfolio after a completed trade.
func (s *TradeService) settle(ctx context.Context, resp model.TradeResponse, req model.TradeRequest) {
	log := s.logger.WithFields(logrus.Fields{
		"symbol":   req.Symbol,
		"type":     resp.Transaction.Type,
		"quantity": req.Quantity,
		"price":    req.Price,
	})
	log.Info("Trade completed")

	if err := s.session.UpdateUser(ctx, resp.User); err != nil {
		log.WithError(err).Warn("Failed to cache updated balance")
	}
	s.refresh()
}

func (s *TradeService) refresh() {
	if s.refresher != nil {
		s.refresher.Trigger()
	}
}

// TopUp adds amount to the balance and returns the updated user.
func (s *TradeService) TopUp(ctx context.Context, amount float64) (model.User, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		return model.User{}, err
	}
	if !s.session.Authenticated() {
		return model.User{}, apperrors.ErrNoSession
	}

	user, err := s.client.TopUp(ctx, amount)
	if err != nil {
		return model.User{}, fmt.Errorf("top up: %w", err)
	}
	if err := s.session.UpdateUser(ctx, user); err != nil {
		s.logger.WithError(err).Warn("Failed to cache updated balance")
	}
	return user, nil
}

// Transactions returns the trade history of the current user.
func (s *TradeService) Transactions(ctx context.Context) ([]model.Transaction, error) {
	if !s.session.Authenticated() {
		return nil, apperrors.ErrNoSession
	}
	txs, err := s.client.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}
