package model

// Watchlist is a named list of stock symbols owned by the user.
type Watchlist struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	StockSymbols []string `json:"stockSymbols"`
}
