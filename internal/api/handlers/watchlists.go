package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/middleware"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
)

// WatchlistHandler handles HTTP requests for watchlist endpoints.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// Watchlists handles GET requests to retrieve the user's watchlists.
//
// Endpoint: GET /api/watchlists
// Response: 200 OK with array of model.Watchlist
// Error: 401 Unauthorized without a session
func (h *WatchlistHandler) Watchlists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.watchlistService.List(r.Context())
	if err != nil {
		response.RespondFailure(w, "failed to retrieve watchlists", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, lists)
}

// CreateWatchlist handles POST requests to create an empty watchlist.
//
// Endpoint: POST /api/watchlists
// Request Body: CreateWatchlistRequest (name)
// Response: 201 Created with model.Watchlist
// Error: 400 Bad Request if the body is invalid or the name is blank
func (h *WatchlistHandler) CreateWatchlist(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	list, err := h.watchlistService.Create(r.Context(), req.Name)
	if err != nil {
		response.RespondFailure(w, "failed to create watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, list)
}

// DeleteWatchlist handles DELETE requests to remove a watchlist.
//
// Endpoint: DELETE /api/watchlists/{id}
// Response: 204 No Content
// Error: 400 Bad Request if the ID is invalid (validated by middleware)
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) DeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlistService.Delete(r.Context(), middleware.WatchlistID(r)); err != nil {
		response.RespondFailure(w, "failed to delete watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// AddStock handles POST requests to add a symbol to a watchlist.
//
// Endpoint: POST /api/watchlists/{id}/stocks/{symbol}
// Response: 200 OK with the updated model.Watchlist
// Error: 400 Bad Request if the ID or symbol is invalid
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.watchlistService.AddStock(r.Context(), middleware.WatchlistID(r), chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondFailure(w, "failed to add stock to watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, list)
}

// RemoveStock handles DELETE requests to remove a symbol from a watchlist.
//
// Endpoint: DELETE /api/watchlists/{id}/stocks/{symbol}
// Response: 200 OK with the updated model.Watchlist
// Error: 400 Bad Request if the ID or symbol is invalid
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) RemoveStock(w http.ResponseWriter, r *http.Request) {
	list, err := h.watchlistService.RemoveStock(r.Context(), middleware.WatchlistID(r), chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondFailure(w, "failed to remove stock from watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, list)
}
