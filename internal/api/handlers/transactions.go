package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
)

// TransactionHandler handles HTTP requests for trade and transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the tradeService.
type TransactionHandler struct {
	tradeService *service.TradeService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(tradeService *service.TradeService) *TransactionHandler {
	return &TransactionHandler{
		tradeService: tradeService,
	}
}

// Buy handles POST requests to buy shares.
//
// Endpoint: POST /api/transactions/buy
// Request Body: TradeRequest (symbol, quantity, price)
// Response: 201 Created with model.TradeResponse
// Error: 400 Bad Request if the body is invalid, validation fails or the balance is insufficient
// Error: 401 Unauthorized without a session
// Error: 502 Bad Gateway if the backend rejects the trade
func (h *TransactionHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.tradeService.Buy(r.Context(), req.Trade())
	if err != nil {
		response.RespondFailure(w, "failed to buy stock", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, resp)
}

// Sell handles POST requests to sell shares. The backend deducts brokerage from the total.
//
// Endpoint: POST /api/transactions/sell
// Request Body: TradeRequest (symbol, quantity, price)
// Response: 201 Created with model.TradeResponse
// Error: 400 Bad Request if the body is invalid, validation fails or too few shares are held
// Error: 401 Unauthorized without a session
// Error: 502 Bad Gateway if the backend rejects the trade
func (h *TransactionHandler) Sell(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	resp, err := h.tradeService.Sell(r.Context(), req.Trade())
	if err != nil {
		response.RespondFailure(w, "failed to sell stock", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, resp)
}

// Transactions handles GET requests to retrieve the trade history, newest first.
//
// Endpoint: GET /api/transactions
// Response: 200 OK with array of model.Transaction
// Error: 401 Unauthorized without a session
// Error: 502 Bad Gateway if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.tradeService.Transactions(r.Context())
	if err != nil {
		response.RespondFailure(w, "failed to retrieve transactions", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// TopUp handles POST requests to add funds to the balance.
//
// Endpoint: POST /api/users/topup
// Request Body: TopUpRequest (amount)
// Response: 200 OK with the updated model.User
// Error: 400 Bad Request if the body is invalid or the amount is not positive
// Error: 401 Unauthorized without a session
func (h *TransactionHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TopUpRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.tradeService.TopUp(r.Context(), req.Amount)
	if err != nil {
		response.RespondFailure(w, "failed to top up balance", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
