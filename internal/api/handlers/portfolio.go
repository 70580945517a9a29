package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/format"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/valuation"
)

// PortfolioSource publishes portfolio snapshots. *pipeline.Pipeline implements it.
type PortfolioSource interface {
	Latest() model.Snapshot
	RefreshOnce(ctx context.Context) (model.Snapshot, error)
}

// PortfolioHandler serves the published portfolio state.
type PortfolioHandler struct {
	source PortfolioSource
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(source PortfolioSource) *PortfolioHandler {
	return &PortfolioHandler{source: source}
}

// FormattedSummary is the summary as displayed: currency with two decimals.
type FormattedSummary struct {
	TotalInvestment string `json:"totalInvestment"`
	CurrentValue    string `json:"currentValue"`
	TotalProfitLoss string `json:"totalProfitLoss"`
	TodayProfitLoss string `json:"todayProfitLoss"`
}

// PortfolioResponse is a snapshot together with its per-holding view.
type PortfolioResponse struct {
	Generation  uint64                 `json:"generation"`
	Holdings    []model.Holding        `json:"holdings"`
	Quotes      map[string]model.Quote `json:"quotes"`
	Positions   []model.Position       `json:"positions"`
	Summary     model.PortfolioSummary `json:"summary"`
	Formatted   FormattedSummary       `json:"formatted"`
	RefreshedAt *time.Time             `json:"refreshedAt"`
	Failed      bool                   `json:"failed"`
}

func newPortfolioResponse(snap model.Snapshot) PortfolioResponse {
	resp := PortfolioResponse{
		Generation: snap.Generation,
		Holdings:   snap.Holdings,
		Quotes:     snap.Quotes,
		Positions:  valuation.Positions(snap.Holdings, snap.Quotes),
		Summary:    snap.Summary,
		Formatted: FormattedSummary{
			TotalInvestment: format.Currency(snap.Summary.TotalInvestment),
			CurrentValue:    format.Currency(snap.Summary.CurrentValue),
			TotalProfitLoss: format.Currency(snap.Summary.TotalProfitLoss),
			TodayProfitLoss: format.Currency(snap.Summary.TodayProfitLoss),
		},
		Failed: snap.Failed,
	}
	if resp.Holdings == nil {
		resp.Holdings = []model.Holding{}
	}
	if resp.Quotes == nil {
		resp.Quotes = map[string]model.Quote{}
	}
	if !snap.RefreshedAt.IsZero() {
		t := snap.RefreshedAt
		resp.RefreshedAt = &t
	}
	return resp
}

// Portfolio returns the most recently published snapshot.
// Before the first refresh completes this is the empty state.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with PortfolioResponse
func (h *PortfolioHandler) Portfolio(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, newPortfolioResponse(h.source.Latest()))
}

// Refresh runs a refresh cycle and returns its snapshot.
// A cycle overtaken by a newer one returns the snapshot it computed, which is not published.
//
// Endpoint: POST /api/portfolio/refresh
// Response: 200 OK with PortfolioResponse
// Error: 502 Bad Gateway if the holdings could not be retrieved (the empty state is published)
func (h *PortfolioHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.RefreshOnce(r.Context())
	if err != nil {
		status := response.StatusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		response.RespondError(w, status, apperrors.ErrFailedToRetrieveHoldings.Error(), apperrors.Message(err))
		return
	}
	response.RespondJSON(w, http.StatusOK, newPortfolioResponse(snap))
}
