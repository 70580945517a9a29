package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &auth); err != nil {
		return model.AuthResponse{}, err
	}
	return auth, nil
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, creds model.Credentials) (model.AuthResponse, error) {
	var auth model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, creds, &auth); err != nil {
		return model.AuthResponse{}, err
	}
	return auth, nil
}

// Buy records a purchase of quantity shares of symbol at price.
func (c *Client) Buy(ctx context.Context, trade model.TradeRequest) (model.TradeResponse, error) {
	var resp model.TradeResponse
	if err := c.do(ctx, http.MethodPost, "/transactions/buy", nil, trade, &resp); err != nil {
		return model.TradeResponse{}, err
	}
	return resp, nil
}

// Sell records a sale of quantity shares of symbol at price.
func (c *Client) Sell(ctx context.Context, trade model.TradeRequest) (model.TradeResponse, error) {
	var resp model.TradeResponse
	if err := c.do(ctx, http.MethodPost, "/transactions/sell", nil, trade, &resp); err != nil {
		return model.TradeResponse{}, err
	}
	return resp, nil
}

// ListTransactions returns the trade history of the current user, newest first.
func (c *Client) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, nil, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

// TopUp adds amount to the balance and returns the updated user.
func (c *Client) TopUp(ctx context.Context, amount float64) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/users/topup", nil, model.TopUpRequest{Amount: amount}, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ListWatchlists returns the watchlists of the current user.
func (c *Client) ListWatchlists(ctx context.Context) ([]model.Watchlist, error) {
	var lists []model.Watchlist
	if err := c.do(ctx, http.MethodGet, "/watchlists", nil, nil, &lists); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []model.Watchlist{}
	}
	return lists, nil
}

// CreateWatchlist creates an empty watchlist called name.
func (c *Client) CreateWatchlist(ctx context.Context, name string) (model.Watchlist, error) {
	var list model.Watchlist
	payload := model.Watchlist{Name: name, StockSymbols: []string{}}
	if err := c.do(ctx, http.MethodPost, "/watchlists", nil, payload, &list); err != nil {
		return model.Watchlist{}, err
	}
	return list, nil
}

// DeleteWatchlist deletes the watchlist with id.
func (c *Client) DeleteWatchlist(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, watchlistPath(id), nil, nil, nil)
}

// AddToWatchlist adds symbol to the watchlist with id and returns the updated list.
func (c *Client) AddToWatchlist(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	var list model.Watchlist
	if err := c.do(ctx, http.MethodPost, watchlistPath(id)+"/stocks/"+segment(symbol), nil, nil, &list); err != nil {
		return model.Watchlist{}, err
	}
	return list, nil
}

// RemoveFromWatchlist removes symbol from the watchlist with id and returns the updated list.
func (c *Client) RemoveFromWatchlist(ctx context.Context, id int64, symbol string) (model.Watchlist, error) {
	var list model.Watchlist
	if err := c.do(ctx, http.MethodDelete, watchlistPath(id)+"/stocks/"+segment(symbol), nil, nil, &list); err != nil {
		return model.Watchlist{}, err
	}
	return list, nil
}

func watchlistPath(id int64) string {
	return fmt.Sprintf("/watchlists/%d", id)
}
