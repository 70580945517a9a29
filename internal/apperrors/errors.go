package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Backend errors classify failures of calls to the remote backend.
// A *StatusError unwraps to one of these based on its status code.
var (
	// ErrTransport indicates that the backend could not be reached or the connection failed.
	ErrTransport = errors.New("backend unreachable")

	// ErrUnauthorized indicates a missing, expired or rejected bearer token (401).
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden indicates the authenticated user may not perform the action (403).
	ErrForbidden = errors.New("access forbidden")

	// ErrNotFound indicates the requested resource does not exist (404),
	// e.g. the user holds no position in a symbol.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the backend or its market data provider throttled the request (429).
	ErrRateLimited = errors.New("rate limit reached")

	// ErrUpstream indicates any other non-success response from the backend.
	ErrUpstream = errors.New("backend request failed")
)

// Validation errors represent user input that fails client-side checks.
// These are returned before any request reaches the backend.
var (
	// ErrInvalidQuantity indicates a non-positive trade quantity.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPrice indicates a non-positive trade price.
	ErrInvalidPrice = errors.New("price must be positive")

	// ErrInvalidAmount indicates a non-positive top-up amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientShares indicates a sell for more shares than currently held.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInsufficientBalance indicates a buy that costs more than the cached balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrInvalidSymbol        = errors.New("symbol is required")
	ErrInvalidInterval      = errors.New("unsupported interval")
	ErrInvalidWatchlistName = errors.New("watchlist name is required")
	ErrInvalidWatchlistID   = errors.New("invalid watchlist ID")
	ErrMissingCredentials   = errors.New("email and password are required")
)

// Session errors.
var (
	// ErrNoSession indicates that an action requires a logged-in user.
	ErrNoSession = errors.New("no active session")
)

// Operation failure errors represent a failed refresh or load that is surfaced as a state, not retried.
var (
	ErrFailedToRetrieveHoldings = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveQuote    = errors.New("failed to retrieve quote")
)

// StatusError is returned when the backend answers with a non-success status code.
// Body holds the (truncated) response body, which the backend uses for
// human-readable failure messages such as "Insufficient balance".
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap maps the status code onto the backend error taxonomy.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrUpstream
	}
}

// IsValidation reports whether err is one of the client-side validation errors.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidQuantity,
		ErrInvalidPrice,
		ErrInvalidAmount,
		ErrInsufficientShares,
		ErrInsufficientBalance,
		ErrInvalidSymbol,
		ErrInvalidInterval,
		ErrInvalidWatchlistName,
		ErrInvalidWatchlistID,
		ErrMissingCredentials,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Message returns the user-visible message for err.
// Backend rejections carry their own message in the response body.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Body != "" {
		return se.Body
	}
	return err.Error()
}
