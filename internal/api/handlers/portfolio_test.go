package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

func TestPortfolioHandler(t *testing.T) {
	t.Run("returns empty state before the first refresh", func(t *testing.T) {
		env := newTestEnv(t, true)
		handler := NewPortfolioHandler(env.pipeline(t))

		w := httptest.NewRecorder()
		handler.Portfolio(w, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))

		expectStatus(t, w, http.StatusOK)
		resp := decode[PortfolioResponse](t, w)
		if len(resp.Holdings) != 0 || len(resp.Positions) != 0 {
			t.Errorf("Expected no holdings, got %+v", resp)
		}
		if resp.RefreshedAt != nil {
			t.Errorf("Expected no refresh time, got %v", resp.RefreshedAt)
		}
		if resp.Formatted.CurrentValue != "$0.00" {
			t.Errorf("Expected '$0.00', got '%s'", resp.Formatted.CurrentValue)
		}
	})

	t.Run("refresh publishes the computed summary", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.fb.SetHoldings(
			testutil.NewHolding("AAPL").WithQuantity(10).WithAveragePrice(100).Build(),
			testutil.NewHolding("MSFT").WithQuantity(0).WithAveragePrice(300).Build(),
		)
		env.fb.SetQuote(testutil.NewQuote("AAPL").WithClose(110).WithPercentChange(5).Build())
		handler := NewPortfolioHandler(env.pipeline(t))

		w := httptest.NewRecorder()
		handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/portfolio/refresh", nil))

		expectStatus(t, w, http.StatusOK)
		resp := decode[PortfolioResponse](t, w)
		if len(resp.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(resp.Holdings))
		}
		want := FormattedSummary{
			TotalInvestment: "$1000.00",
			CurrentValue:    "$1100.00",
			TotalProfitLoss: "$100.00",
			TodayProfitLoss: "$55.00",
		}
		if resp.Formatted != want {
			t.Errorf("Expected %+v, got %+v", want, resp.Formatted)
		}
		if len(resp.Positions) != 1 || resp.Positions[0].CurrentValue != 1100 {
			t.Errorf("Unexpected positions %+v", resp.Positions)
		}

		w = httptest.NewRecorder()
		handler.Portfolio(w, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
		if got := decode[PortfolioResponse](t, w); got.Generation != resp.Generation {
			t.Errorf("Expected published generation %d, got %d", resp.Generation, got.Generation)
		}
	})

	t.Run("holdings failure publishes the empty state", func(t *testing.T) {
		env := newTestEnv(t, true)
		env.fb.Fail(http.MethodGet, "/holdings", http.StatusInternalServerError, "database down")
		handler := NewPortfolioHandler(env.pipeline(t))

		w := httptest.NewRecorder()
		handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/portfolio/refresh", nil))

		expectStatus(t, w, http.StatusBadGateway)

		w = httptest.NewRecorder()
		handler.Portfolio(w, httptest.NewRequest(http.MethodGet, "/api/portfolio", nil))
		resp := decode[PortfolioResponse](t, w)
		if !resp.Failed {
			t.Error("Expected failed snapshot")
		}
		if len(resp.Holdings) != 0 || resp.Summary.CurrentValue != 0 {
			t.Errorf("Expected empty state, got %+v", resp)
		}
	})
}
