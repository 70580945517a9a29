package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

// brokerageRate is the fee the backend deducts from sale proceeds.
var brokerageRate = decimal.RequireFromString("0.03")

// RecordedRequest is a request received by a FakeBackend.
type RecordedRequest struct {
	Method        string
	Path          string
	Pattern       string
	Authorization string
	RequestID     string
}

// FakeBackend is an in-memory trading backend served over httptest.
// It implements the routes the dashboard calls with enough state to exercise
// trades, watchlists and the refresh pipeline. Any route can be replaced with Override.
//
// Example:
//
//	fb := testutil.NewFakeBackend(t)
//	fb.SetHoldings(testutil.NewHolding("AAPL").WithQuantity(10).Build())
//	client := backend.NewClient(fb.URL(), nil, nil)
type FakeBackend struct {
	server *httptest.Server

	mu           sync.Mutex
	token        string
	user         model.User
	holdings     []model.Holding
	quotes       map[string]model.Quote
	quoteStatus  map[string]int
	series       map[string]model.TimeSeries
	fundamentals map[string]json.RawMessage
	financials   map[string]json.RawMessage
	search       []model.SearchResult
	topMovers    json.RawMessage
	news         []model.NewsItem
	watchlists   []model.Watchlist
	transactions []model.Transaction
	overrides    map[string]http.HandlerFunc
	requests     []RecordedRequest
	nextID       int64
}

// NewFakeBackend starts a fake backend that is shut down when the test completes.
// The user starts with a balance of 10000 and no holdings.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	fb := &FakeBackend{
		user:         NewUser(10000),
		quotes:       make(map[string]model.Quote),
		quoteStatus:  make(map[string]int),
		series:       make(map[string]model.TimeSeries),
		fundamentals: make(map[string]json.RawMessage),
		financials:   make(map[string]json.RawMessage),
		overrides:    make(map[string]http.HandlerFunc),
		nextID:       1,
	}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		fb.handle(r, http.MethodPost, "/auth/login", fb.login)
		fb.handle(r, http.MethodPost, "/auth/register", fb.login)

		fb.handle(r, http.MethodGet, "/holdings", fb.getHoldings)
		fb.handle(r, http.MethodGet, "/holdings/{symbol}", fb.getHolding)

		fb.handle(r, http.MethodGet, "/stocks/search", fb.searchStocks)
		fb.handle(r, http.MethodGet, "/stocks/top-movers", fb.getTopMovers)
		fb.handle(r, http.MethodGet, "/stocks/news", fb.getNews)
		fb.handle(r, http.MethodGet, "/stocks/{symbol}/quote", fb.getQuote)
		fb.handle(r, http.MethodGet, "/stocks/{symbol}/data", fb.getSeries)
		fb.handle(r, http.MethodGet, "/stocks/{symbol}/fundamentals", fb.getRaw(func() map[string]json.RawMessage { return fb.fundamentals }))
		fb.handle(r, http.MethodGet, "/stocks/{symbol}/financials", fb.getRaw(func() map[string]json.RawMessage { return fb.financials }))

		fb.handle(r, http.MethodPost, "/transactions/buy", fb.buy)
		fb.handle(r, http.MethodPost, "/transactions/sell", fb.sell)
		fb.handle(r, http.MethodGet, "/transactions", fb.listTransactions)
		fb.handle(r, http.MethodPost, "/users/topup", fb.topUp)

		fb.handle(r, http.MethodGet, "/watchlists", fb.listWatchlists)
		fb.handle(r, http.MethodPost, "/watchlists", fb.createWatchlist)
		fb.handle(r, http.MethodDelete, "/watchlists/{id}", fb.deleteWatchlist)
		fb.handle(r, http.MethodPost, "/watchlists/{id}/stocks/{symbol}", fb.addToWatchlist)
		fb.handle(r, http.MethodDelete, "/watchlists/{id}/stocks/{symbol}", fb.removeFromWatchlist)
	})

	fb.server = httptest.NewServer(r)
	t.Cleanup(fb.server.Close)
	return fb
}

// URL returns the API root of the fake backend.
func (fb *FakeBackend) URL() string {
	return fb.server.URL + "/api"
}

// RequireToken makes every non-auth route answer 401 unless the bearer token matches.
// Login and registration hand out this token.
func (fb *FakeBackend) RequireToken(token string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.token = token
}

// SetUser replaces the account returned by login and modified by trades.
func (fb *FakeBackend) SetUser(user model.User) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.user = user
}

// User returns the current account state.
func (fb *FakeBackend) User() model.User {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.user
}

// SetHoldings replaces all holdings.
func (fb *FakeBackend) SetHoldings(holdings ...model.Holding) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.holdings = append([]model.Holding(nil), holdings...)
}

// Holdings returns a copy of the current holdings.
func (fb *FakeBackend) Holdings() []model.Holding {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]model.Holding(nil), fb.holdings...)
}

// SetQuote sets the quote served for its symbol.
func (fb *FakeBackend) SetQuote(q model.Quote) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.quotes[q.Symbol] = q
	delete(fb.quoteStatus, q.Symbol)
}

// FailQuote makes quote requests for symbol answer with status.
func (fb *FakeBackend) FailQuote(symbol string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.quoteStatus[symbol] = status
}

// SetTimeSeries sets the price history served for symbol.
func (fb *FakeBackend) SetTimeSeries(symbol string, series model.TimeSeries) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.series[symbol] = series
}

// SetFundamentals sets the company metadata served for symbol.
func (fb *FakeBackend) SetFundamentals(symbol string, raw string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fundamentals[symbol] = json.RawMessage(raw)
}

// SetFinancials sets the financial statements served for symbol.
func (fb *FakeBackend) SetFinancials(symbol string, raw string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.financials[symbol] = json.RawMessage(raw)
}

// SetSearchResults sets the candidates returned for every search.
func (fb *FakeBackend) SetSearchResults(results ...model.SearchResult) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.search = append([]model.SearchResult(nil), results...)
}

// SetTopMovers sets the raw top movers payload.
func (fb *FakeBackend) SetTopMovers(raw string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.topMovers = json.RawMessage(raw)
}

// SetNews sets the news feed.
func (fb *FakeBackend) SetNews(items ...model.NewsItem) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.news = append([]model.NewsItem(nil), items...)
}

// SetWatchlists replaces all watchlists.
func (fb *FakeBackend) SetWatchlists(lists ...model.Watchlist) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.watchlists = append([]model.Watchlist(nil), lists...)
	for _, l := range lists {
		if l.ID >= fb.nextID {
			fb.nextID = l.ID + 1
		}
	}
}

// Override replaces the handler of a route. pattern is the route below /api,
// e.g. "/stocks/{symbol}/quote". Requests are still recorded.
func (fb *FakeBackend) Override(method, pattern string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.overrides[method+" "+pattern] = h
}

// Fail makes a route answer with status and message.
func (fb *FakeBackend) Fail(method, pattern string, status int, message string) {
	fb.Override(method, pattern, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, message, status)
	})
}

// Requests returns every request received so far.
func (fb *FakeBackend) Requests() []RecordedRequest {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]RecordedRequest(nil), fb.requests...)
}

// Count returns how many requests matched method and pattern.
func (fb *FakeBackend) Count(method, pattern string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, req := range fb.requests {
		if req.Method == method && req.Pattern == pattern {
			n++
		}
	}
	return n
}

func (fb *FakeBackend) handle(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Pattern:       pattern,
			Authorization: req.Header.Get("Authorization"),
			RequestID:     req.Header.Get("X-Request-ID"),
		})
		override := fb.overrides[method+" "+pattern]
		token := fb.token
		fb.mu.Unlock()

		if token != "" && !strings.HasPrefix(pattern, "/auth/") &&
			req.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if override != nil {
			override(w, req)
			return
		}
		h(w, req)
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (fb *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	token := fb.token
	if token == "" {
		token = "fake-token"
	}
	user := fb.user
	user.Email = creds.Email
	if creds.Name != "" {
		user.Name = creds.Name
	}
	fb.user = user
	writeJSON(w, http.StatusOK, model.AuthResponse{Token: token, User: user})
}

func (fb *FakeBackend) getHoldings(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	holdings := fb.holdings
	if holdings == nil {
		holdings = []model.Holding{}
	}
	writeJSON(w, http.StatusOK, holdings)
}

func (fb *FakeBackend) getHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	for _, h := range fb.holdings {
		if h.StockSymbol == symbol {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	http.Error(w, "Holding not found", http.StatusNotFound)
}

func (fb *FakeBackend) getQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if status, ok := fb.quoteStatus[symbol]; ok {
		http.Error(w, "quote unavailable", status)
		return
	}
	q, ok := fb.quotes[symbol]
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "error",
			"message": fmt.Sprintf("**symbol** %s not found", symbol),
		})
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (fb *FakeBackend) getSeries(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	series, ok := fb.series[symbol]
	if !ok {
		http.Error(w, "series not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (fb *FakeBackend) getRaw(source func() map[string]json.RawMessage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		fb.mu.Lock()
		defer fb.mu.Unlock()
		raw, ok := source()[symbol]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, raw)
	}
}

func (fb *FakeBackend) searchStocks(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	results := fb.search
	if results == nil {
		results = []model.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": results})
}

func (fb *FakeBackend) getTopMovers(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.topMovers == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, fb.topMovers)
}

func (fb *FakeBackend) getNews(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	feed := fb.news
	if feed == nil {
		feed = []model.NewsItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"feed": feed})
}

func (fb *FakeBackend) buy(w http.ResponseWriter, r *http.Request) {
	var trade model.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	qty := decimal.NewFromFloat(trade.Quantity)
	price := decimal.NewFromFloat(trade.Price)
	total := qty.Mul(price)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	if fb.user.Balance.LessThan(total) {
		http.Error(w, "Insufficient balance", http.StatusBadRequest)
		return
	}
	fb.user.Balance = model.Number{Decimal: fb.user.Balance.Sub(total)}

	found := false
	for i, h := range fb.holdings {
		if h.StockSymbol != trade.Symbol {
			continue
		}
		newQty := h.Quantity.Add(qty)
		cost := h.Quantity.Mul(h.AveragePrice.Decimal).Add(total)
		fb.holdings[i].Quantity = model.Number{Decimal: newQty}
		fb.holdings[i].AveragePrice = model.Number{Decimal: cost.Div(newQty)}
		found = true
		break
	}
	if !found {
		fb.holdings = append(fb.holdings, model.Holding{
			StockSymbol:  trade.Symbol,
			Quantity:     model.Number{Decimal: qty},
			AveragePrice: model.Number{Decimal: price},
		})
	}

	tx := fb.record(trade, "BUY", total)
	writeJSON(w, http.StatusOK, model.TradeResponse{Transaction: tx, User: fb.user})
}

func (fb *FakeBackend) sell(w http.ResponseWriter, r *http.Request) {
	var trade model.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	qty := decimal.NewFromFloat(trade.Quantity)
	price := decimal.NewFromFloat(trade.Price)

	fb.mu.Lock()
	defer fb.mu.Unlock()
	idx := -1
	for i, h := range fb.holdings {
		if h.StockSymbol == trade.Symbol {
			idx = i
			break
		}
	}
	if idx < 0 || fb.holdings[idx].Quantity.LessThan(qty) {
		http.Error(w, "Insufficient stocks to sell", http.StatusBadRequest)
		return
	}

	total := qty.Mul(price)
	net := total.Sub(total.Mul(brokerageRate))
	fb.user.Balance = model.Number{Decimal: fb.user.Balance.Add(net)}

	remaining := fb.holdings[idx].Quantity.Sub(qty)
	if remaining.IsZero() {
		fb.holdings = append(fb.holdings[:idx], fb.holdings[idx+1:]...)
	} else {
		fb.holdings[idx].Quantity = model.Number{Decimal: remaining}
	}

	tx := fb.record(trade, "SELL", net)
	writeJSON(w, http.StatusOK, model.TradeResponse{Transaction: tx, User: fb.user})
}

// record appends a transaction. The caller holds fb.mu.
func (fb *FakeBackend) record(trade model.TradeRequest, kind string, total decimal.Decimal) model.Transaction {
	tx := model.Transaction{
		ID:          fb.nextID,
		StockSymbol: trade.Symbol,
		Quantity:    model.NewNumber(trade.Quantity),
		Price:       model.NewNumber(trade.Price),
		Type:        kind,
		Timestamp:   model.Timestamp{Time: time.Now().UTC()},
		Total:       model.Number{Decimal: total},
	}
	fb.nextID++
	fb.transactions = append([]model.Transaction{tx}, fb.transactions...)
	return tx
}

func (fb *FakeBackend) listTransactions(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	txs := fb.transactions
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (fb *FakeBackend) topUp(w http.ResponseWriter, r *http.Request) {
	var req model.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.user.Balance = model.Number{Decimal: fb.user.Balance.Add(decimal.NewFromFloat(req.Amount))}
	writeJSON(w, http.StatusOK, fb.user)
}

func (fb *FakeBackend) listWatchlists(w http.ResponseWriter, _ *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	lists := fb.watchlists
	if lists == nil {
		lists = []model.Watchlist{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (fb *FakeBackend) createWatchlist(w http.ResponseWriter, r *http.Request) {
	var list model.Watchlist
	if err := json.NewDecoder(r.Body).Decode(&list); err != nil || list.Name == "" {
		http.Error(w, "Invalid watchlist", http.StatusBadRequest)
		return
	}

	fb.mu.Lock()
	defer fb.mu.Unlock()
	list.ID = fb.nextID
	fb.nextID++
	if list.StockSymbols == nil {
		list.StockSymbols = []string{}
	}
	fb.watchlists = append(fb.watchlists, list)
	writeJSON(w, http.StatusOK, list)
}

// watchlistIndex finds the watchlist named by the id URL parameter. The caller holds fb.mu.
func (fb *FakeBackend) watchlistIndex(r *http.Request) int {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return -1
	}
	for i, l := range fb.watchlists {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (fb *FakeBackend) deleteWatchlist(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	idx := fb.watchlistIndex(r)
	if idx < 0 {
		http.Error(w, "Watchlist not found", http.StatusNotFound)
		return
	}
	fb.watchlists = append(fb.watchlists[:idx], fb.watchlists[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (fb *FakeBackend) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	idx := fb.watchlistIndex(r)
	if idx < 0 {
		http.Error(w, "Watchlist not found", http.StatusNotFound)
		return
	}
	list := &fb.watchlists[idx]
	for _, s := range list.StockSymbols {
		if s == symbol {
			writeJSON(w, http.StatusOK, *list)
			return
		}
	}
	list.StockSymbols = append(list.StockSymbols, symbol)
	writeJSON(w, http.StatusOK, *list)
}

func (fb *FakeBackend) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	idx := fb.watchlistIndex(r)
	if idx < 0 {
		http.Error(w, "Watchlist not found", http.StatusNotFound)
		return
	}
	list := &fb.watchlists[idx]
	kept := make([]string, 0, len(list.StockSymbols))
	for _, s := range list.StockSymbols {
		if s != symbol {
			kept = append(kept, s)
		}
	}
	list.StockSymbols = kept
	writeJSON(w, http.StatusOK, *list)
}
