package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// OverviewSource holds the latest market overview. *market.Feed implements it.
type OverviewSource interface {
	Latest() model.MarketOverview
}

// MarketHandler serves the market overview.
type MarketHandler struct {
	feed OverviewSource
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(feed OverviewSource) *MarketHandler {
	return &MarketHandler{feed: feed}
}

// Overview returns the top movers and news of the last scheduled refresh.
//
// Endpoint: GET /api/market
// Response: 200 OK with model.MarketOverview
func (h *MarketHandler) Overview(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.feed.Latest())
}
