package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
)

// StockHandler handles HTTP requests for stock search and detail endpoints.
type StockHandler struct {
	stockService  *service.StockService
	searchService *service.SearchService
	typeahead     *service.Debouncer
}

// NewStockHandler creates a new StockHandler.
// typeahead may be nil, in which case the typeahead endpoints answer 404.
func NewStockHandler(stockService *service.StockService, searchService *service.SearchService, typeahead *service.Debouncer) *StockHandler {
	return &StockHandler{
		stockService:  stockService,
		searchService: searchService,
		typeahead:     typeahead,
	}
}

// SearchResponse is the result of a stock search.
type SearchResponse struct {
	Query   string               `json:"query"`
	Results []model.SearchResult `json:"results"`
}

// Search returns the US-listed stocks matching the symbol query parameter.
// A failed search is reported as no results.
//
// Endpoint: GET /api/stocks/search?symbol={query}
// Response: 200 OK with SearchResponse
func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("symbol")
	response.RespondJSON(w, http.StatusOK, SearchResponse{
		Query:   q,
		Results: h.searchService.Search(r.Context(), q),
	})
}

// SubmitTypeahead replaces the pending typeahead query.
// The search runs once the query stopped changing for the debounce window.
//
// Endpoint: POST /api/stocks/search/typeahead
// Request Body: TypeaheadRequest (query)
// Response: 202 Accepted
// Error: 400 Bad Request if the request body is invalid
func (h *StockHandler) SubmitTypeahead(w http.ResponseWriter, r *http.Request) {
	if h.typeahead == nil {
		response.RespondError(w, http.StatusNotFound, "typeahead search is disabled", "")
		return
	}
	req, err := parseJSON[request.TypeaheadRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	h.typeahead.Submit(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// Typeahead returns the results delivered for the most recent typeahead query.
//
// Endpoint: GET /api/stocks/search/typeahead
// Response: 200 OK with SearchResponse
func (h *StockHandler) Typeahead(w http.ResponseWriter, _ *http.Request) {
	if h.typeahead == nil {
		response.RespondError(w, http.StatusNotFound, "typeahead search is disabled", "")
		return
	}
	latest := h.typeahead.Latest()
	response.RespondJSON(w, http.StatusOK, SearchResponse{Query: latest.Query, Results: latest.Results})
}

// Details returns the quote, price series, holding, fundamentals and financials of a stock.
// Pieces that failed to load are null.
//
// Endpoint: GET /api/stocks/{symbol}?interval={interval}
// Response: 200 OK with model.StockDetails
// Error: 400 Bad Request if the symbol or interval is invalid
func (h *StockHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.stockService.Details(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("interval"))
	if err != nil {
		response.RespondFailure(w, "failed to load stock", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, details)
}
