package model

import (
	"encoding/json"
	"time"
)

// NewsItem is a single market news entry.
type NewsItem struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	TimePublished string `json:"time_published"`
	Summary       string `json:"summary"`
	Source        string `json:"source"`
}

// MarketOverview holds the market-wide data shown on the explore page.
type MarketOverview struct {
	TopMovers   json.RawMessage `json:"topMovers,omitempty"`
	News        []NewsItem      `json:"news"`
	RefreshedAt time.Time       `json:"refreshedAt"`
}
