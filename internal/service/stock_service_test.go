package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

func TestStockService_Details(t *testing.T) {
	ctx := context.Background()

	t.Run("loads every piece", func(t *testing.T) {
		// Setup
		env := newEnv(t)
		env.fb.SetQuote(testutil.NewQuote("AAPL").WithClose(190).Build())
		env.fb.SetTimeSeries("AAPL", model.TimeSeries{Values: []model.Candle{{Datetime: "2024-01-02"}}})
		env.fb.SetHoldings(testutil.NewHolding("AAPL").WithQuantity(4).Build())
		env.fb.SetFundamentals("AAPL", `{"Sector":"Technology"}`)
		env.fb.SetFinancials("AAPL", `{"annualReports":[]}`)
		svc := service.NewStockService(env.client, testutil.NewTestLogger(t))

		// Execute
		details, err := svc.Details(ctx, "aapl", "1day")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "AAPL", details.Symbol)
		assert.Equal(t, "1day", details.Interval)
		require.NotNil(t, details.Quote)
		assert.Equal(t, "190", details.Quote.Close.String())
		require.NotNil(t, details.Series)
		assert.Len(t, details.Series.Values, 1)
		assert.Equal(t, "4", details.Holding.Quantity.String())
		assert.JSONEq(t, `{"Sector":"Technology"}`, string(details.Fundamentals))
		assert.JSONEq(t, `{"annualReports":[]}`, string(details.Financials))

		current, ok := svc.Current()
		require.True(t, ok)
		assert.Equal(t, details, current)
	})

	t.Run("secondary failures leave pieces empty", func(t *testing.T) {
		env := newEnv(t)
		env.fb.FailQuote("AAPL", http.StatusTooManyRequests)
		svc := service.NewStockService(env.client, testutil.NewTestLogger(t))

		details, err := svc.Details(ctx, "AAPL", "")

		require.NoError(t, err)
		assert.Equal(t, "1h", details.Interval)
		assert.Nil(t, details.Quote)
		assert.Nil(t, details.Series)
		assert.Nil(t, details.Fundamentals)
		assert.Equal(t, "AAPL", details.Holding.StockSymbol)
		assert.True(t, details.Holding.Quantity.IsZero())
	})

	t.Run("invalid interval is rejected locally", func(t *testing.T) {
		env := newEnv(t)
		svc := service.NewStockService(env.client, testutil.NewTestLogger(t))

		_, err := svc.Details(ctx, "AAPL", "2h")

		require.ErrorIs(t, err, apperrors.ErrInvalidInterval)
		assert.Empty(t, env.fb.Requests())
	})

	t.Run("older load does not replace newer one", func(t *testing.T) {
		// Setup: the quote of OLD blocks until released.
		env := newEnv(t)
		started := make(chan struct{})
		release := make(chan struct{})
		env.fb.Override(http.MethodGet, "/stocks/{symbol}/quote", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "symbol") == "OLD" {
				close(started)
				<-release
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"close":"1"}`))
		})
		svc := service.NewStockService(env.client, testutil.NewTestLogger(t))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = svc.Details(ctx, "OLD", "")
		}()
		<-started

		// Execute
		_, err := svc.Details(ctx, "NEW", "")
		require.NoError(t, err)
		close(release)
		<-done

		// Assert
		current, ok := svc.Current()
		require.True(t, ok)
		assert.Equal(t, "NEW", current.Symbol)
	})
}
