package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard/internal/backend"
	"github.com/ndewijer/Portfolio-Dashboard/internal/repository"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

const testToken = "tok"

// countingRefresher records refresh requests.
type countingRefresher struct {
	n atomic.Int32
}

func (r *countingRefresher) Trigger() { r.n.Add(1) }

func (r *countingRefresher) Count() int { return int(r.n.Load()) }

type testEnv struct {
	fb        *testutil.FakeBackend
	client    *backend.Client
	session   *session.Manager
	refresher *countingRefresher
}

// newEnv returns a fake backend and a session logged in with a cached balance of 10000.
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	fb := testutil.NewFakeBackend(t)
	fb.RequireToken(testToken)

	key, _, err := session.LoadKey("")
	require.NoError(t, err)
	sess := session.NewManager(repository.NewSessionRepository(testutil.SetupTestDB(t)), key, time.Hour, testutil.NewTestLogger(t))
	require.NoError(t, sess.Login(context.Background(), testutil.NewUser(10000), testToken))

	return &testEnv{
		fb:        fb,
		client:    backend.NewClient(fb.URL(), sess, nil),
		session:   sess,
		refresher: &countingRefresher{},
	}
}

// newAnonymousEnv returns a fake backend without a session.
func newAnonymousEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newEnv(t)
	require.NoError(t, env.session.Logout(context.Background()))
	return env
}
