package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// Intervals lists the supported time series intervals.
var Intervals = []string{"1min", "5min", "15min", "30min", "1h", "1day", "1week"}

// DefaultInterval is used when no interval is requested.
const DefaultInterval = "1h"

// ValidInterval reports whether interval is one of Intervals.
func ValidInterval(interval string) bool {
	for _, i := range Intervals {
		if i == interval {
			return true
		}
	}
	return false
}

// GetHoldings fetches all holdings of the current user.
// The list is returned as delivered; filtering of empty positions is left to the caller.
func (c *Client) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	var holdings []model.Holding
	if err := c.do(ctx, http.MethodGet, "/holdings", nil, nil, &holdings); err != nil {
		return nil, err
	}
	if holdings == nil {
		holdings = []model.Holding{}
	}
	return holdings, nil
}

// GetHolding fetches the holding of the current user in symbol.
// Returns an error wrapping apperrors.ErrNotFound when the user holds no position.
func (c *Client) GetHolding(ctx context.Context, symbol string) (model.Holding, error) {
	var holding model.Holding
	if err := c.do(ctx, http.MethodGet, "/holdings/"+segment(symbol), nil, nil, &holding); err != nil {
		return model.Holding{}, err
	}
	return holding, nil
}

// GetQuote fetches the latest quote for symbol.
// The market data provider reports unknown symbols with a 200 response carrying
// a status of "error"; that case is returned as apperrors.ErrNotFound.
func (c *Client) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	var payload struct {
		model.Quote
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodGet, "/stocks/"+segment(symbol)+"/quote", nil, nil, &payload); err != nil {
		return model.Quote{}, err
	}
	if payload.Status == "error" {
		return model.Quote{}, fmt.Errorf("%w: quote %s: %s", apperrors.ErrNotFound, symbol, payload.Message)
	}
	if payload.Symbol == "" {
		payload.Symbol = symbol
	}
	return payload.Quote, nil
}

// GetTimeSeries fetches the price history of symbol at interval.
func (c *Client) GetTimeSeries(ctx context.Context, symbol, interval string) (model.TimeSeries, error) {
	if !ValidInterval(interval) {
		return model.TimeSeries{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidInterval, interval)
	}
	var series model.TimeSeries
	query := url.Values{"interval": {interval}}
	if err := c.do(ctx, http.MethodGet, "/stocks/"+segment(symbol)+"/data", query, nil, &series); err != nil {
		return model.TimeSeries{}, err
	}
	return series, nil
}

// GetFundamentals fetches company metadata for symbol as raw JSON.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/stocks/"+segment(symbol)+"/fundamentals", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetFinancials fetches financial statements for symbol as raw JSON.
func (c *Client) GetFinancials(ctx context.Context, symbol string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/stocks/"+segment(symbol)+"/financials", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// SearchStocks returns the candidates matching q.
func (c *Client) SearchStocks(ctx context.Context, q string) ([]model.SearchResult, error) {
	var payload struct {
		Data []model.SearchResult `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/stocks/search", url.Values{"symbol": {q}}, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		return []model.SearchResult{}, nil
	}
	return payload.Data, nil
}

// GetTopMovers fetches the market-wide top movers as raw JSON.
func (c *Client) GetTopMovers(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/stocks/top-movers", nil, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetNews fetches the market news feed.
func (c *Client) GetNews(ctx context.Context) ([]model.NewsItem, error) {
	var payload struct {
		Feed []model.NewsItem `json:"feed"`
	}
	if err := c.do(ctx, http.MethodGet, "/stocks/news", nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Feed, nil
}
