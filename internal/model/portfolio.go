package model

import "time"

// Holding is a user's owned quantity and cost basis for one stock symbol,
// as returned by the backend. Holdings are read-only for a refresh cycle.
type Holding struct {
	StockSymbol  string `json:"stockSymbol"`
	Quantity     Number `json:"quantity"`
	AveragePrice Number `json:"averagePrice"`
}

// Quote is the latest market snapshot for a symbol.
// It is transient and replaced wholesale every refresh.
type Quote struct {
	Symbol        string `json:"symbol,omitempty"`
	Name          string `json:"name,omitempty"`
	Exchange      string `json:"exchange,omitempty"`
	Close         Number `json:"close"`
	PercentChange Number `json:"percent_change"`
	Volume        Number `json:"volume"`
}

// PortfolioSummary represents the aggregated valuation derived from holdings and quotes.
// It is never persisted and always recomputed from the full holdings and quotes sets.
type PortfolioSummary struct {
	TotalInvestment float64 `json:"totalInvestment"` // Σ quantity × average price
	CurrentValue    float64 `json:"currentValue"`    // Σ quantity × close
	TotalProfitLoss float64 `json:"totalProfitLoss"` // currentValue - totalInvestment
	TodayProfitLoss float64 `json:"todayProfitLoss"` // Σ percent_change / 100 × value
}

// Position is the valuation of a single holding against its quote.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      float64 `json:"quantity"`
	AveragePrice  float64 `json:"averagePrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	CurrentValue  float64 `json:"currentValue"`
	ProfitLoss    float64 `json:"profitLoss"`
	PercentChange float64 `json:"percentChange"`
	HasQuote      bool    `json:"hasQuote"`
}

// Snapshot is the published (holdings, quotes, summary) triple of one refresh cycle.
// Snapshots are immutable once published; readers must not modify the slices or maps.
type Snapshot struct {
	Generation  uint64           `json:"generation"`
	CycleID     string           `json:"cycleId,omitempty"`
	Holdings    []Holding        `json:"holdings"`
	Quotes      map[string]Quote `json:"quotes"`
	Summary     PortfolioSummary `json:"summary"`
	RefreshedAt time.Time        `json:"refreshedAt"`
	Failed      bool             `json:"failed"`
}

// EmptySnapshot returns the explicit empty state: no holdings, no quotes and a zero summary.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Holdings: []Holding{},
		Quotes:   map[string]Quote{},
	}
}
