package backend_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newClient(t *testing.T) (*backend.Client, *testutil.FakeBackend) {
	t.Helper()
	fb := testutil.NewFakeBackend(t)
	return backend.NewClient(fb.URL(), staticToken("secret"), nil), fb
}

func TestClient_Headers(t *testing.T) {
	t.Run("sends bearer token and request ID", func(t *testing.T) {
		// Setup
		client, fb := newClient(t)
		ctx := backend.WithRequestID(context.Background(), "cycle-1")

		// Execute
		_, err := client.GetHoldings(ctx)

		// Assert
		require.NoError(t, err)
		reqs := fb.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "Bearer secret", reqs[0].Authorization)
		assert.Equal(t, "cycle-1", reqs[0].RequestID)
	})

	t.Run("omits authorization without a token", func(t *testing.T) {
		fb := testutil.NewFakeBackend(t)
		client := backend.NewClient(fb.URL()+"/", staticToken(""), nil)

		_, err := client.GetHoldings(context.Background())

		require.NoError(t, err)
		assert.Empty(t, fb.Requests()[0].Authorization)
	})

	t.Run("rejected token maps to ErrUnauthorized", func(t *testing.T) {
		client, fb := newClient(t)
		fb.RequireToken("other")

		_, err := client.GetHoldings(context.Background())

		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, apperrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, apperrors.ErrForbidden},
		{"not found", http.StatusNotFound, apperrors.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, apperrors.ErrRateLimited},
		{"server error", http.StatusInternalServerError, apperrors.ErrUpstream},
		{"bad request", http.StatusBadRequest, apperrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, fb := newClient(t)
			fb.Fail(http.MethodGet, "/holdings", tt.status, "backend says no")

			_, err := client.GetHoldings(context.Background())

			require.ErrorIs(t, err, tt.want)
			var se *apperrors.StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, "backend says no", se.Body)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	client := backend.NewClient("http://127.0.0.1:1/api", nil, nil)

	_, err := client.GetHoldings(context.Background())

	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestClient_CancelledContext(t *testing.T) {
	client, _ := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetHoldings(ctx)

	require.ErrorIs(t, err, apperrors.ErrTransport)
}

func TestClient_GetHoldings(t *testing.T) {
	t.Run("empty list is non-nil", func(t *testing.T) {
		client, _ := newClient(t)

		holdings, err := client.GetHoldings(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, holdings)
		assert.Empty(t, holdings)
	})

	t.Run("decodes string and number encodings", func(t *testing.T) {
		client, fb := newClient(t)
		fb.Override(http.MethodGet, "/holdings", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"stockSymbol":"AAPL","quantity":"10","averagePrice":100.5},
				{"stockSymbol":"MSFT","quantity":0,"averagePrice":"abc"}
			]`))
		})

		holdings, err := client.GetHoldings(context.Background())

		require.NoError(t, err)
		require.Len(t, holdings, 2)
		assert.Equal(t, "10", holdings[0].Quantity.String())
		assert.Equal(t, "100.5", holdings[0].AveragePrice.String())
		assert.True(t, holdings[1].AveragePrice.IsZero())
	})
}

func TestClient_GetHolding(t *testing.T) {
	client, fb := newClient(t)
	fb.SetHoldings(testutil.NewHolding("AAPL").WithQuantity(3).Build())

	h, err := client.GetHolding(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "3", h.Quantity.String())

	_, err = client.GetHolding(context.Background(), "TSLA")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClient_GetQuote(t *testing.T) {
	t.Run("returns quote", func(t *testing.T) {
		client, fb := newClient(t)
		fb.SetQuote(testutil.NewQuote("AAPL").WithClose(110).WithPercentChange(5).Build())

		q, err := client.GetQuote(context.Background(), "AAPL")

		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
		assert.Equal(t, "110", q.Close.String())
		assert.Equal(t, "5", q.PercentChange.String())
	})

	t.Run("provider error payload is not found", func(t *testing.T) {
		client, _ := newClient(t)

		_, err := client.GetQuote(context.Background(), "NOPE")

		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("fills in missing symbol", func(t *testing.T) {
		client, fb := newClient(t)
		fb.Override(http.MethodGet, "/stocks/{symbol}/quote", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"close":"12.5","percent_change":"-1.2","volume":"100"}`))
		})

		q, err := client.GetQuote(context.Background(), "IBM")

		require.NoError(t, err)
		assert.Equal(t, "IBM", q.Symbol)
		assert.Equal(t, "-1.2", q.PercentChange.String())
	})

	t.Run("escapes symbol", func(t *testing.T) {
		client, fb := newClient(t)

		_, _ = client.GetQuote(context.Background(), "BRK/B")

		reqs := fb.Requests()
		require.Len(t, reqs, 1)
		assert.Equal(t, "/stocks/{symbol}/quote", reqs[0].Pattern)
	})
}

func TestClient_GetTimeSeries(t *testing.T) {
	t.Run("rejects unsupported interval without a request", func(t *testing.T) {
		client, fb := newClient(t)

		_, err := client.GetTimeSeries(context.Background(), "AAPL", "2h")

		require.ErrorIs(t, err, apperrors.ErrInvalidInterval)
		assert.Empty(t, fb.Requests())
	})

	t.Run("returns series", func(t *testing.T) {
		client, fb := newClient(t)
		fb.SetTimeSeries("AAPL", model.TimeSeries{Values: []model.Candle{{Datetime: "2024-01-02", Close: model.NewNumber(185.5)}}})

		series, err := client.GetTimeSeries(context.Background(), "AAPL", "1day")

		require.NoError(t, err)
		require.Len(t, series.Values, 1)
		assert.Equal(t, "185.5", series.Values[0].Close.String())
	})
}

func TestClient_SearchStocks(t *testing.T) {
	client, fb := newClient(t)
	fb.Override(http.MethodGet, "/stocks/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"data":[{"symbol":"AAPL","instrument_name":"Apple Inc","exchange":"NASDAQ","country":"United States"}]}`))
	})

	results, err := client.SearchStocks(context.Background(), "app")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Apple Inc", results[0].Name)
}

func TestClient_Market(t *testing.T) {
	client, fb := newClient(t)
	fb.SetTopMovers(`{"top_gainers":[{"ticker":"XYZ"}]}`)
	fb.SetNews(model.NewsItem{Title: "Markets rally", Source: "Wire"})

	movers, err := client.GetTopMovers(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"top_gainers":[{"ticker":"XYZ"}]}`, string(movers))

	news, err := client.GetNews(context.Background())
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "Markets rally", news[0].Title)
}

func TestClient_Trades(t *testing.T) {
	t.Run("buy then sell updates balance", func(t *testing.T) {
		client, fb := newClient(t)

		resp, err := client.Buy(context.Background(), model.TradeRequest{Symbol: "AAPL", Quantity: 10, Price: 100})
		require.NoError(t, err)
		assert.Equal(t, "BUY", resp.Transaction.Type)
		assert.Equal(t, "9000", resp.User.Balance.String())

		resp, err = client.Sell(context.Background(), model.TradeRequest{Symbol: "AAPL", Quantity: 10, Price: 100})
		require.NoError(t, err)
		assert.Equal(t, "SELL", resp.Transaction.Type)
		assert.Equal(t, "970", resp.Transaction.Total.String())
		assert.Equal(t, "9970", resp.User.Balance.String())
		assert.Empty(t, fb.Holdings())

		txs, err := client.ListTransactions(context.Background())
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "SELL", txs[0].Type)
		assert.False(t, txs[0].Timestamp.IsZero())
	})

	t.Run("rejection carries backend message", func(t *testing.T) {
		client, _ := newClient(t)

		_, err := client.Buy(context.Background(), model.TradeRequest{Symbol: "AAPL", Quantity: 1000, Price: 100})

		require.ErrorIs(t, err, apperrors.ErrUpstream)
		assert.Equal(t, "Insufficient balance", apperrors.Message(err))
	})

	t.Run("top up returns updated user", func(t *testing.T) {
		client, _ := newClient(t)

		user, err := client.TopUp(context.Background(), 250)

		require.NoError(t, err)
		assert.Equal(t, "10250", user.Balance.String())
	})
}

func TestClient_Watchlists(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	created, err := client.CreateWatchlist(ctx, "Tech")
	require.NoError(t, err)
	assert.Equal(t, "Tech", created.Name)

	list, err := client.AddToWatchlist(ctx, created.ID, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, list.StockSymbols)

	list, err = client.RemoveFromWatchlist(ctx, created.ID, "AAPL")
	require.NoError(t, err)
	assert.Empty(t, list.StockSymbols)

	lists, err := client.ListWatchlists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 1)

	require.NoError(t, client.DeleteWatchlist(ctx, created.ID))
	require.ErrorIs(t, client.DeleteWatchlist(ctx, created.ID), apperrors.ErrNotFound)
}

func TestClient_Login(t *testing.T) {
	client, fb := newClient(t)
	fb.RequireToken("issued")

	auth, err := client.Login(context.Background(), model.Credentials{Email: "a@b.c", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "issued", auth.Token)
	assert.Equal(t, "a@b.c", auth.User.Email)

	_, err = client.Login(context.Background(), model.Credentials{Email: "a@b.c"})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestValidInterval(t *testing.T) {
	for _, i := range backend.Intervals {
		assert.True(t, backend.ValidInterval(i), i)
	}
	assert.False(t, backend.ValidInterval(""))
	assert.False(t, backend.ValidInterval("1d"))
}
