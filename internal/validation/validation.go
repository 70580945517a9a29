// Package validation checks user input before it is sent to the backend.
// Every failure wraps one of the apperrors validation sentinels.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// positive reports whether v is a finite number greater than zero.
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
// Returns apperrors.ErrInvalidSymbol when it is empty or contains whitespace.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
	}
	return s, nil
}

// ValidateTrade validates a buy or sell request and returns it with a normalized symbol.
//
// Required fields:
//   - symbol: Non-empty ticker without whitespace
//   - quantity: Must be positive
//   - price: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateTrade(req model.TradeRequest) (model.TradeRequest, error) {
	verr := &Error{}

	symbol, err := NormalizeSymbol(req.Symbol)
	if err != nil {
		verr.add("symbol", apperrors.ErrInvalidSymbol)
	}
	if !positive(req.Quantity) {
		verr.add("quantity", apperrors.ErrInvalidQuantity)
	}
	if !positive(req.Price) {
		verr.add("price", apperrors.ErrInvalidPrice)
	}
	if err := verr.orNil(); err != nil {
		return model.TradeRequest{}, err
	}

	req.Symbol = symbol
	return req, nil
}

// ValidateAmount checks a top-up amount.
func ValidateAmount(amount float64) error {
	if !positive(amount) {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidAmount, amount)
	}
	return nil
}

// NormalizeInterval returns interval, or backend.DefaultInterval when it is empty.
// Returns apperrors.ErrInvalidInterval for intervals the backend does not serve.
func NormalizeInterval(interval string) (string, error) {
	interval = strings.TrimSpace(interval)
	if interval == "" {
		return backend.DefaultInterval, nil
	}
	if !backend.ValidInterval(interval) {
		return "", fmt.Errorf("%w: %q (supported: %s)", apperrors.ErrInvalidInterval, interval, strings.Join(backend.Intervals, ", "))
	}
	return interval, nil
}

// NormalizeWatchlistName trims name and rejects empty names.
func NormalizeWatchlistName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.ErrInvalidWatchlistName
	}
	return name, nil
}

// ParseWatchlistID parses a watchlist ID from a path parameter.
func ParseWatchlistID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidWatchlistID, raw)
	}
	return id, nil
}

// ValidateCredentials checks login and registration input.
// Registration additionally requires a name.
func ValidateCredentials(creds model.Credentials, register bool) error {
	verr := &Error{}
	if strings.TrimSpace(creds.Email) == "" {
		verr.add("email", apperrors.ErrMissingCredentials)
	}
	if creds.Password == "" {
		verr.add("password", apperrors.ErrMissingCredentials)
	}
	if register && strings.TrimSpace(creds.Name) == "" {
		verr.add("name", apperrors.ErrMissingCredentials)
	}
	return verr.orNil()
}
