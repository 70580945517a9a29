package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
	"github.com/ndewijer/Portfolio-Dashboard/internal/validation"
)

// AuthService logs the dashboard in and out of the backend.
type AuthService struct {
	client    *backend.Client
	session   *session.Manager
	refresher Refresher
	logger    *logrus.Logger
}

// NewAuthService creates a new AuthService. refresher may be nil.
func NewAuthService(client *backend.Client, sess *session.Manager, refresher Refresher, logger *logrus.Logger) *AuthService {
	return &AuthService{
		client:    client,
		session:   sess,
		refresher: refresher,
		logger:    logger,
	}
}

// Login authenticates with the backend and starts a session.
func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (model.User, error) {
	if err := validation.ValidateCredentials(creds, false); err != nil {
		return model.User{}, err
	}
	auth, err := s.client.Login(ctx, creds)
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}
	return s.start(ctx, auth)
}

// Register creates an account and starts a session for it.
func (s *AuthService) Register(ctx context.Context, creds model.Credentials) (model.User, error) {
	if err := validation.ValidateCredentials(creds, true); err != nil {
		return model.User{}, err
	}
	auth, err := s.client.Register(ctx, creds)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	return s.start(ctx, auth)
}

func (s *AuthService) start(ctx context.Context, auth model.AuthResponse) (model.User, error) {
	if err := s.session.Login(ctx, auth.User, auth.Token); err != nil {
		return model.User{}, fmt.Errorf("failed to start session: %w", err)
	}
	s.logger.WithField("email", auth.User.Email).Info("Logged in")
	s.refresh()
	return auth.User, nil
}

// Logout ends the session. The next refresh publishes the empty state.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("Logged out")
	s.refresh()
	return nil
}

// Current returns the session user.
func (s *AuthService) Current() (model.User, bool) {
	return s.session.User()
}

func (s *AuthService) refresh() {
	if s.refresher != nil {
		s.refresher.Trigger()
	}
}
