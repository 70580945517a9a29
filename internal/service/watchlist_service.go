package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/validation"
)

// WatchlistService manages the user's watchlists.
// Every operation goes straight to the backend; failures are returned to the caller.
type WatchlistService struct {
	client *backend.Client
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(client *backend.Client) *WatchlistService {
	return &WatchlistService{client: client}
}

// List returns all watchlists.
func (s *WatchlistService) List(ctx context.Context) ([]model.Watchlist, error) {
	lists, err := s.client.ListWatchlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlists: %w", err)
	}
	return lists, nil
}

// Create creates an empty watchlist. The name must not be blank.
func (s *WatchlistService) Create(ctx context.Context, name string) (model.Watchlist, error) {
	name, err := validation.NormalizeWatchlistName(name)
	if err != nil {
		return model.Watchlist{}, err
	}
	list, err := s.client.CreateWatchlist(ctx, name)
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to create watchlist: %w", err)
	}
	return list, nil
}

// Delete removes a watchlist.
func (s *WatchlistService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteWatchlist(ctx, id); err != nil {
		return fmt.Errorf("failed to delete watchlist %d: %w", id, err)
	}
	return nil
}

// AddStock adds symbol to a watchlist.
func (s *WatchlistService) AddStock(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	symbol, err := validation.NormalizeSymbol(symbol)
	if err != nil {
		return model.Watchlist{}, err
	}
	list, err := s.client.AddToWatchlist(ctx, id, symbol)
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to add %s to watchlist %d: %w", symbol, id, err)
	}
	return list, nil
}

// RemoveStock removes symbol from a watchlist.
func (s *WatchlistService) RemoveStock(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	symbol, err := validation.NormalizeSymbol(symbol)
	if err != nil {
		return model.Watchlist{}, err
	}
	list, err := s.client.RemoveFromWatchlist(ctx, id, symbol)
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to remove %s from watchlist %d: %w", symbol, id, err)
	}
	return list, nil
}
