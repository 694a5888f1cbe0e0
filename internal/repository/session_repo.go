package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// SessionRecord is a server-side session row.
type SessionRecord struct {
	ID        string
	Data      map[string]string
	ExpiresAt time.Time
}

// SessionRepository persists server-side sessions
type SessionRepository interface {
	Find(ctx context.Context, id string) (*SessionRecord, error)
	Save(ctx context.Context, rec *SessionRecord) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepository struct {
	db DBTX
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepository{db: db}
}

// Find returns a live session. Expired or unknown ids are (nil, nil).
func (r *sessionRepository) Find(ctx context.Context, id string) (*SessionRecord, error) {
	sql := `SELECT id, data, expires_at FROM sessions WHERE id = $1 AND expires_at > NOW()`
	rec := &SessionRecord{}
	err := r.db.QueryRow(ctx, sql, id).Scan(&rec.ID, &rec.Data, &rec.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if rec.Data == nil {
		rec.Data = map[string]string{}
	}
	return rec, nil
}

// Save inserts the session or replaces its data and expiry
func (r *sessionRepository) Save(ctx context.Context, rec *SessionRecord) error {
	sql := `INSERT INTO sessions (id, data, expires_at) VALUES ($1, $2, $3)
            ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`
	if _, err := r.db.Exec(ctx, sql, rec.ID, rec.Data, rec.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired reaps every session past its expiry
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to reap sessions: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
