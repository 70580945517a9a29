package service

import (
	"database/sql"
	"time"

	"github.com/ndewijer/Portfolio-Dashboard/internal/database"
	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/session"
)

// SnapshotSource exposes the latest published portfolio snapshot.
type SnapshotSource interface {
	Latest() model.Snapshot
}

// SystemService handles system-related operations
type SystemService struct {
	db        *sql.DB
	session   *session.Manager
	snapshots SnapshotSource
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, sess *session.Manager, snapshots SnapshotSource) *SystemService {
	return &SystemService{
		db:        db,
		session:   sess,
		snapshots: snapshots,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// Info describes the session and the last published refresh.
// Status is "healthy" unless the session store is unreachable.
func (s *SystemService) Info() model.HealthInfo {
	info := model.HealthInfo{Status: "healthy", Session: "anonymous"}
	if err := s.CheckHealth(); err != nil {
		info.Status = "unhealthy"
	}
	if s.session.Authenticated() {
		info.Session = "authenticated"
	}
	if snap := s.snapshots.Latest(); !snap.RefreshedAt.IsZero() {
		info.LastRefreshed = snap.RefreshedAt.UTC().Format(time.RFC3339)
	}
	return info
}
