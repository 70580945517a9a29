package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db, nil))
	// Applying twice is a no-op.
	require.NoError(t, Migrate(db, nil))

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM session_entry`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.NoError(t, HealthCheck(db))
}

func TestHealthCheck_Closed(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	db.Close()

	assert.Error(t, HealthCheck(db))
}
