// Package request defines the bodies accepted by the local API.
package request

import "github.com/ndewijer/Portfolio-Dashboard/internal/model"

// TradeRequest represents the request body for buying or selling shares
type TradeRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Trade converts the body into the trade sent to the backend.
func (r TradeRequest) Trade() model.TradeRequest {
	return model.TradeRequest{Symbol: r.Symbol, Quantity: r.Quantity, Price: r.Price}
}

// TopUpRequest represents the request body for adding funds.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}

// CreateWatchlistRequest represents the request body for creating a watchlist
type CreateWatchlistRequest struct {
	Name string `json:"name"`
}

// TypeaheadRequest carries the current contents of the search box.
type TypeaheadRequest struct {
	Query string `json:"query"`
}

// LoginRequest represents the request body for logging in or registering.
// Name is only used on registration.
type LoginRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials converts the body into backend credentials.
func (r LoginRequest) Credentials() model.Credentials {
	return model.Credentials{Name: r.Name, Email: r.Email, Password: r.Password}
}
