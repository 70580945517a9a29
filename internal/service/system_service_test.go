package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/repository"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

type fixedSnapshot model.Snapshot

func (f fixedSnapshot) Latest() model.Snapshot { return model.Snapshot(f) }

func TestSystemService_Info(t *testing.T) {
	t.Run("anonymous before first refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		key, _, _ := session.LoadKey("")
		sess := session.NewManager(repository.NewSessionRepository(db), key, time.Hour, testutil.NewTestLogger(t))
		svc := service.NewSystemService(db, sess, fixedSnapshot(model.EmptySnapshot()))

		info := svc.Info()

		assert.Equal(t, "healthy", info.Status)
		assert.Equal(t, "anonymous", info.Session)
		assert.Empty(t, info.LastRefreshed)
	})

	t.Run("reports last refresh", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		key, _, _ := session.LoadKey("")
		sess := session.NewManager(repository.NewSessionRepository(db), key, time.Hour, testutil.NewTestLogger(t))
		snap := model.EmptySnapshot()
		snap.RefreshedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := service.NewSystemService(db, sess, fixedSnapshot(snap))

		info := svc.Info()

		assert.Equal(t, "2024-03-01T12:00:00Z", info.LastRefreshed)
	})

	t.Run("closed database is unhealthy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		key, _, _ := session.LoadKey("")
		sess := session.NewManager(repository.NewSessionRepository(db), key, time.Hour, testutil.NewTestLogger(t))
		svc := service.NewSystemService(db, sess, fixedSnapshot(model.EmptySnapshot()))
		db.Close()

		assert.Equal(t, "unhealthy", svc.Info().Status)
	})
}
