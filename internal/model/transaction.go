package model

import "time"

// TradeRequest is the payload for buying or selling a stock.
type TradeRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Transaction represents a buy or sell recorded by the backend.
// Total is the net amount after brokerage for sells.
type Transaction struct {
	ID          int64     `json:"id"`
	StockSymbol string    `json:"stockSymbol"`
	Quantity    Number    `json:"quantity"`
	Price       Number    `json:"price"`
	Type        string    `json:"type"`
	Timestamp   Timestamp `json:"timestamp"`
	Total       Number    `json:"total"`
}

// TradeResponse is returned by the buy and sell endpoints.
type TradeResponse struct {
	Transaction Transaction `json:"transaction"`
	User        User        `json:"user"`
}

// Timestamp decodes the backend's LocalDateTime values, which carry no zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts RFC3339 and zone-less ISO timestamps. Unparseable values decode to zero.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' {
		t.Time = time.Time{}
		return nil
	}
	s = s[1 : len(s)-1]
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}
