package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

func TestWatchlistHandler(t *testing.T) {
	env := newTestEnv(t, true)
	env.fb.SetWatchlists(model.Watchlist{ID: 7, Name: "Tech", StockSymbols: []string{"AAPL"}})
	handler := NewWatchlistHandler(service.NewWatchlistService(env.client))

	withID := func(h http.HandlerFunc) http.Handler {
		return middleware.ValidateWatchlistIDMiddleware(h)
	}

	t.Run("lists watchlists", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Watchlists(w, httptest.NewRequest(http.MethodGet, "/api/watchlists", nil))

		expectStatus(t, w, http.StatusOK)
		lists := decode[[]model.Watchlist](t, w)
		if len(lists) != 1 || lists[0].Name != "Tech" {
			t.Errorf("Unexpected watchlists %+v", lists)
		}
	})

	t.Run("creates a watchlist", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateWatchlist(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlists",
			request.CreateWatchlistRequest{Name: "  Energy "}, nil))

		expectStatus(t, w, http.StatusCreated)
		if list := decode[model.Watchlist](t, w); list.Name != "Energy" {
			t.Errorf("Expected name 'Energy', got '%s'", list.Name)
		}
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.CreateWatchlist(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/watchlists",
			request.CreateWatchlistRequest{Name: "   "}, nil))

		expectStatus(t, w, http.StatusBadRequest)
	})

	t.Run("adds and removes a stock", func(t *testing.T) {
		params := map[string]string{"id": "7", "symbol": "msft"}

		w := httptest.NewRecorder()
		withID(handler.AddStock).ServeHTTP(w, testutil.NewRequestWithURLParams(http.MethodPost, "/api/watchlists/7/stocks/msft", params))

		expectStatus(t, w, http.StatusOK)
		if list := decode[model.Watchlist](t, w); len(list.StockSymbols) != 2 || list.StockSymbols[1] != "MSFT" {
			t.Errorf("Unexpected symbols %v", list.StockSymbols)
		}

		w = httptest.NewRecorder()
		withID(handler.RemoveStock).ServeHTTP(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/watchlists/7/stocks/msft", params))

		expectStatus(t, w, http.StatusOK)
		if list := decode[model.Watchlist](t, w); len(list.StockSymbols) != 1 {
			t.Errorf("Unexpected symbols %v", list.StockSymbols)
		}
	})

	t.Run("deletes a watchlist", func(t *testing.T) {
		w := httptest.NewRecorder()
		withID(handler.DeleteWatchlist).ServeHTTP(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/watchlists/7", map[string]string{"id": "7"}))

		expectStatus(t, w, http.StatusNoContent)

		w = httptest.NewRecorder()
		withID(handler.DeleteWatchlist).ServeHTTP(w, testutil.NewRequestWithURLParams(http.MethodDelete, "/api/watchlists/7", map[string]string{"id": "7"}))

		expectStatus(t, w, http.StatusNotFound)
	})
}
