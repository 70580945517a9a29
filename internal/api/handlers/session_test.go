package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Dashboard/internal/api/request"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

func TestSessionHandler(t *testing.T) {
	setupHandler := func(t *testing.T) (*SessionHandler, *testEnv) {
		t.Helper()
		env := newTestEnv(t, false)
		return NewSessionHandler(service.NewAuthService(env.client, env.session, nil, testutil.NewTestLogger(t))), env
	}

	t.Run("reports anonymous session", func(t *testing.T) {
		handler, _ := setupHandler(t)

		w := httptest.NewRecorder()
		handler.Session(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

		expectStatus(t, w, http.StatusOK)
		if resp := decode[SessionResponse](t, w); resp.Authenticated || resp.User != nil {
			t.Errorf("Expected anonymous session, got %+v", resp)
		}
	})

	t.Run("logs in and out", func(t *testing.T) {
		handler, env := setupHandler(t)

		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/session/login",
			request.LoginRequest{Email: "trader@example.com", Password: "secret"}, nil))

		expectStatus(t, w, http.StatusOK)
		resp := decode[SessionResponse](t, w)
		if !resp.Authenticated || resp.User == nil || resp.User.Email != "trader@example.com" {
			t.Errorf("Unexpected session %+v", resp)
		}
		if env.session.Token() != testToken {
			t.Errorf("Expected token '%s', got '%s'", testToken, env.session.Token())
		}

		w = httptest.NewRecorder()
		handler.Logout(w, httptest.NewRequest(http.MethodPost, "/api/session/logout", nil))

		expectStatus(t, w, http.StatusNoContent)
		if env.session.Authenticated() {
			t.Error("Expected session to be cleared")
		}
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		handler, env := setupHandler(t)

		w := httptest.NewRecorder()
		handler.Login(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/session/login",
			request.LoginRequest{Email: "trader@example.com"}, nil))

		expectStatus(t, w, http.StatusBadRequest)
		if n := env.fb.Count(http.MethodPost, "/auth/login"); n != 0 {
			t.Errorf("Expected no backend call, got %d", n)
		}
	})

	t.Run("registers a new account", func(t *testing.T) {
		handler, _ := setupHandler(t)

		w := httptest.NewRecorder()
		handler.Register(w, testutil.NewJSONRequest(t, http.MethodPost, "/api/session/register",
			request.LoginRequest{Name: "New Trader", Email: "new@example.com", Password: "secret"}, nil))

		expectStatus(t, w, http.StatusCreated)
		if resp := decode[SessionResponse](t, w); resp.User == nil || resp.User.Name != "New Trader" {
			t.Errorf("Unexpected session %+v", resp)
		}
	})
}
