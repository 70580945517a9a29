package testutil

import (
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example:
//
//	h := testutil.NewHolding("AAPL").WithQuantity(10).WithAveragePrice(100).Build()
type HoldingBuilder struct {
	symbol       string
	quantity     float64
	averagePrice float64
}

// NewHolding creates a holding builder with one share bought at 100.
func NewHolding(symbol string) *HoldingBuilder {
	return &HoldingBuilder{
		symbol:       symbol,
		quantity:     1,
		averagePrice: 100,
	}
}

// WithQuantity sets the number of shares.
func (b *HoldingBuilder) WithQuantity(qty float64) *HoldingBuilder {
	b.quantity = qty
	return b
}

// WithAveragePrice sets the cost basis per share.
func (b *HoldingBuilder) WithAveragePrice(price float64) *HoldingBuilder {
	b.averagePrice = price
	return b
}

// Build returns the holding.
func (b *HoldingBuilder) Build() model.Holding {
	return model.Holding{
		StockSymbol:  b.symbol,
		Quantity:     model.NewNumber(b.quantity),
		AveragePrice: model.NewNumber(b.averagePrice),
	}
}

// QuoteBuilder provides a fluent interface for creating test quotes.
type QuoteBuilder struct {
	symbol        string
	close         float64
	percentChange float64
	volume        float64
}

// NewQuote creates a quote builder for symbol closing at 100, unchanged on the day.
func NewQuote(symbol string) *QuoteBuilder {
	return &QuoteBuilder{
		symbol: symbol,
		close:  100,
		volume: 1000000,
	}
}

// WithClose sets the latest price.
func (b *QuoteBuilder) WithClose(price float64) *QuoteBuilder {
	b.close = price
	return b
}

// WithPercentChange sets the change on the day, in percent.
func (b *QuoteBuilder) WithPercentChange(pct float64) *QuoteBuilder {
	b.percentChange = pct
	return b
}

// WithVolume sets the traded volume.
func (b *QuoteBuilder) WithVolume(volume float64) *QuoteBuilder {
	b.volume = volume
	return b
}

// Build returns the quote.
func (b *QuoteBuilder) Build() model.Quote {
	return model.Quote{
		Symbol:        b.symbol,
		Close:         model.NewNumber(b.close),
		PercentChange: model.NewNumber(b.percentChange),
		Volume:        model.NewNumber(b.volume),
	}
}

// NewUser creates a test user with the given balance.
func NewUser(balance float64) model.User {
	return model.User{
		ID:      1,
		Email:   "trader@example.com",
		Name:    "Test Trader",
		Balance: model.NewNumber(balance),
	}
}
