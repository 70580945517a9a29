// Package valuation computes portfolio figures from holdings and quotes.
// All functions are pure: equal inputs always produce bit-identical outputs.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

var hundred = decimal.NewFromInt(100)

// HeldPositions returns the holdings with a strictly positive quantity, in input order.
// Zero and negative positions are never displayed or valued.
func HeldPositions(holdings []model.Holding) []model.Holding {
	held := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity.IsPositive() {
			held = append(held, h)
		}
	}
	return held
}

// Symbols returns the distinct stock symbols of holdings, in first-seen order.
func Symbols(holdings []model.Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.StockSymbol]; ok {
			continue
		}
		seen[h.StockSymbol] = struct{}{}
		symbols = append(symbols, h.StockSymbol)
	}
	return symbols
}

// line holds the exact per-holding figures.
type line struct {
	investment decimal.Decimal
	value      decimal.Decimal
	profitLoss decimal.Decimal
	today      decimal.Decimal
	price      decimal.Decimal
	change     decimal.Decimal
	hasQuote   bool
}

func valueHolding(h model.Holding, quotes map[string]model.Quote) line {
	q, ok := quotes[h.StockSymbol]

	// A missing quote values the position at price 0.
	price := decimal.Zero
	change := decimal.Zero
	if ok {
		price = q.Close.Decimal
		change = q.PercentChange.Decimal
	}

	investment := h.Quantity.Mul(h.AveragePrice.Decimal)
	value := h.Quantity.Mul(price)
	return line{
		investment: investment,
		value:      value,
		profitLoss: value.Sub(investment),
		today:      change.Mul(value).Div(hundred),
		price:      price,
		change:     change,
		hasQuote:   ok,
	}
}

// Summarize aggregates holdings against quotes.
// Holdings without a quote contribute their investment but no value.
func Summarize(holdings []model.Holding, quotes map[string]model.Quote) model.PortfolioSummary {
	investment := decimal.Zero
	value := decimal.Zero
	today := decimal.Zero

	for _, h := range holdings {
		l := valueHolding(h, quotes)
		investment = investment.Add(l.investment)
		value = value.Add(l.value)
		today = today.Add(l.today)
	}

	return model.PortfolioSummary{
		TotalInvestment: investment.InexactFloat64(),
		CurrentValue:    value.InexactFloat64(),
		TotalProfitLoss: value.Sub(investment).InexactFloat64(),
		TodayProfitLoss: today.InexactFloat64(),
	}
}

// Positions values each holding against its quote, in holdings order.
func Positions(holdings []model.Holding, quotes map[string]model.Quote) []model.Position {
	positions := make([]model.Position, len(holdings))
	for i, h := range holdings {
		l := valueHolding(h, quotes)
		positions[i] = model.Position{
			Symbol:        h.StockSymbol,
			Quantity:      h.Quantity.InexactFloat64(),
			AveragePrice:  h.AveragePrice.InexactFloat64(),
			CurrentPrice:  l.price.InexactFloat64(),
			CurrentValue:  l.value.InexactFloat64(),
			ProfitLoss:    l.profitLoss.InexactFloat64(),
			PercentChange: l.change.InexactFloat64(),
			HasQuote:      l.hasQuote,
		}
	}
	return positions
}
