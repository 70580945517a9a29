package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/api/response"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
)

// SessionHandler handles login, registration and logout.
type SessionHandler struct {
	authService *service.AuthService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{authService: authService}
}

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user"`
}

func sessionResponse(user model.User, ok bool) SessionResponse {
	if !ok {
		return SessionResponse{}
	}
	return SessionResponse{Authenticated: true, User: &user}
}

// Session returns the logged-in user, if any.
//
// Endpoint: GET /api/session
// Response: 200 OK with SessionResponse
func (h *SessionHandler) Session(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, sessionResponse(h.authService.Current()))
}

// Login handles POST requests to log in with email and password.
//
// Endpoint: POST /api/session/login
// Request Body: LoginRequest (email, password)
// Response: 200 OK with SessionResponse
// Error: 400 Bad Request if the body is invalid or credentials are missing
// Error: 401 Unauthorized if the backend rejects the credentials
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.authService.Login(r.Context(), req.Credentials())
	if err != nil {
		response.RespondFailure(w, "login failed", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, sessionResponse(user, true))
}

// Register handles POST requests to create an account and log in.
//
// Endpoint: POST /api/session/register
// Request Body: LoginRequest (name, email, password)
// Response: 201 Created with SessionResponse
// Error: 400 Bad Request if the body is invalid or fields are missing
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(r.Context(), req.Credentials())
	if err != nil {
		response.RespondFailure(w, "registration failed", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, sessionResponse(user, true))
}

// Logout ends the session. The next refresh publishes the empty portfolio.
//
// Endpoint: POST /api/session/logout
// Response: 204 No Content
// Error: 500 Internal Server Error if the session could not be cleared
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		response.RespondFailure(w, "logout failed", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
