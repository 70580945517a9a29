package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SessionRepository provides data access methods for the session_entry table.
// It stores the persisted session as opaque key/value pairs.
type SessionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSessionRepository creates a new SessionRepository with the provided database connection.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx returns a repository that runs its statements inside tx.
func (r *SessionRepository) WithTx(tx *sql.Tx) *SessionRepository {
	return &SessionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SessionRepository) getQuerier() interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Get retrieves the value stored under key.
// The boolean is false when no entry exists.
func (r *SessionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.getQuerier().QueryRowContext(ctx, `SELECT value FROM session_entry WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query session entry %s: %w", key, err)
	}
	return value, true, nil
}

// Put inserts or replaces the value stored under key.
func (r *SessionRepository) Put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO session_entry (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.getQuerier().ExecContext(ctx, query, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to store session entry %s: %w", key, err)
	}
	return nil
}

// PutAll stores every entry in a single transaction.
// Either all entries are written or none are.
func (r *SessionRepository) PutAll(ctx context.Context, entries map[string]string) error {
	if r.tx != nil {
		return r.putEach(ctx, entries)
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := r.WithTx(tx).putEach(ctx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session entries: %w", err)
	}
	return nil
}

func (r *SessionRepository) putEach(ctx context.Context, entries map[string]string) error {
	for key, value := range entries {
		if err := r.Put(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the entries stored under keys. Missing keys are ignored.
func (r *SessionRepository) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM session_entry WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete session entry %s: %w", key, err)
		}
	}
	return nil
}

// BeginTx starts a transaction on the underlying database.
func (r *SessionRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}
