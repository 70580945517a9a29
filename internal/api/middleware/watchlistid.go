// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/validation"
)

type watchlistIDKey struct{}

// ValidateWatchlistIDMiddleware validates that the id URL parameter is a positive integer.
// Returns 400 Bad Request if the watchlist ID is missing or invalid.
// The parsed ID is available to handlers through WatchlistID.
//
// Example usage in router:
//
//	r.Route("/{id}", func(r chi.Router) {
//	    r.Use(middleware.ValidateWatchlistIDMiddleware)
//	    r.Delete("/", handler.DeleteWatchlist)
//	})
func ValidateWatchlistIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "id")

		if raw == "" {
			response.RespondError(w, http.StatusBadRequest, "watchlist ID is required", "")
			return
		}

		id, err := validation.ParseWatchlistID(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid watchlist ID", err.Error())
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), watchlistIDKey{}, id)))
	})
}

// WatchlistID returns the watchlist ID validated by ValidateWatchlistIDMiddleware, or 0.
func WatchlistID(r *http.Request) int64 {
	id, _ := r.Context().Value(watchlistIDKey{}).(int64)
	return id
}
