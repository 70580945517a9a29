// Package session holds the process-wide login state: the authenticated user
// and the bearer token used for every backend call.
//
// The state is persisted so the dashboard survives restarts. The token is
// encrypted at rest with fernet; the user is stored as JSON. Entries that can
// no longer be decoded are cleared during Init and treated as absent.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Store persists session entries.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	// PutAll stores all entries atomically.
	PutAll(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}

// Manager owns the session state. It is safe for concurrent use.
type Manager struct {
	store  Store
	key    *fernet.Key
	ttl    time.Duration
	logger *logrus.Logger

	mu    sync.RWMutex
	user  *model.User
	token string
}

// NewManager creates a session manager.
//
// Parameters:
//   - store: Persistence for the session entries
//   - key: Fernet key used to encrypt the token at rest
//   - ttl: Maximum age of a persisted token; older tokens are discarded on Init
//   - logger: Logger for hydration problems
func NewManager(store Store, key *fernet.Key, ttl time.Duration, logger *logrus.Logger) *Manager {
	return &Manager{
		store:  store,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

// LoadKey decodes a base64 fernet key. An empty string generates a new key,
// reported by the boolean; tokens encrypted with it do not survive a restart.
func LoadKey(encoded string) (*fernet.Key, bool, error) {
	if encoded == "" {
		k := new(fernet.Key)
		if err := k.Generate(); err != nil {
			return nil, false, fmt.Errorf("failed to generate session key: %w", err)
		}
		return k, true, nil
	}
	k, err := fernet.DecodeKey(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("invalid session key: %w", err)
	}
	return k, false, nil
}

// Init hydrates the session from the store.
// A user entry that is not valid JSON, or a token that cannot be decrypted,
// is deleted from the store. A session is only restored when both are present.
func (m *Manager) Init(ctx context.Context) error {
	user, err := m.loadUser(ctx)
	if err != nil {
		return err
	}
	token, err := m.loadToken(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = nil
	m.token = ""
	if user != nil && token != "" {
		m.user = user
		m.token = token
		m.logger.WithField("email", user.Email).Info("Session restored")
	}
	return nil
}

func (m *Manager) loadUser(ctx context.Context) (*model.User, error) {
	raw, ok, err := m.store.Get(ctx, userKey)
	if err != nil || !ok {
		return nil, err
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.logger.WithError(err).Warn("Discarding corrupt persisted user")
		return nil, m.store.Delete(ctx, userKey)
	}
	return &user, nil
}

func (m *Manager) loadToken(ctx context.Context) (string, error) {
	raw, ok, err := m.store.Get(ctx, tokenKey)
	if err != nil || !ok {
		return "", err
	}
	token := fernet.VerifyAndDecrypt([]byte(raw), m.ttl, []*fernet.Key{m.key})
	if len(token) == 0 {
		m.logger.Warn("Discarding persisted token that could not be decrypted")
		return "", m.store.Delete(ctx, tokenKey)
	}
	return string(token), nil
}

// Login replaces the session with user and token and persists both.
func (m *Manager) Login(ctx context.Context, user model.User, token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", apperrors.ErrUnauthorized)
	}
	sealed, err := fernet.EncryptAndSign([]byte(token), m.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := m.store.PutAll(ctx, map[string]string{userKey: string(data), tokenKey: string(sealed)}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	m.token = token
	return nil
}

// UpdateUser replaces the cached user, e.g. after a trade changed the balance.
func (m *Manager) UpdateUser(ctx context.Context, user model.User) error {
	if !m.Authenticated() {
		return apperrors.ErrNoSession
	}
	if err := m.putUser(ctx, user); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	return nil
}

func (m *Manager) putUser(ctx context.Context, user model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return m.store.Put(ctx, userKey, string(data))
}

// Logout clears the session in memory and in the store.
// The in-memory state is cleared even when the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mu.Unlock()

	return m.store.Delete(ctx, userKey, tokenKey)
}

// Token returns the bearer token, or "" without a session.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// User returns a copy of the session user.
func (m *Manager) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}
