package model

import "encoding/json"

// SearchResult is one candidate returned by the stock search endpoint.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Country  string `json:"country"`
}

// UnmarshalJSON accepts the provider's instrument_name as the name.
func (r *SearchResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		Symbol         string `json:"symbol"`
		Name           string `json:"name"`
		InstrumentName string `json:"instrument_name"`
		Exchange       string `json:"exchange"`
		Country        string `json:"country"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.Symbol = raw.Symbol
	r.Name = raw.Name
	if r.Name == "" {
		r.Name = raw.InstrumentName
	}
	r.Exchange = raw.Exchange
	r.Country = raw.Country
	return nil
}

// Candle is a single point of a price time series.
type Candle struct {
	Datetime string `json:"datetime"`
	Open     Number `json:"open"`
	High     Number `json:"high"`
	Low      Number `json:"low"`
	Close    Number `json:"close"`
	Volume   Number `json:"volume"`
}

// TimeSeries is the price history of a symbol at a given interval.
// Values are ordered newest first as delivered by the backend.
type TimeSeries struct {
	Meta   json.RawMessage `json:"meta,omitempty"`
	Values []Candle        `json:"values"`
}

// StockDetails aggregates everything shown for a single symbol.
// Secondary pieces that could not be fetched are left nil.
type StockDetails struct {
	Symbol       string          `json:"symbol"`
	Interval     string          `json:"interval"`
	Quote        *Quote          `json:"quote"`
	Series       *TimeSeries     `json:"series"`
	Holding      Holding         `json:"holding"`
	Fundamentals json.RawMessage `json:"fundamentals,omitempty"`
	Financials   json.RawMessage `json:"financials,omitempty"`
}
