package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/repository"
)

var _ repository.SessionRepository = (*DB)(nil)

// CreateSession stores a new session. ID and CreatedAt are filled in when
// empty.
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	if !s.Role.Valid() {
		return apperror.ValidationFailed("role", fmt.Sprintf("unknown role %q", s.Role))
	}
	if s.ID == "" {
		s.ID = xid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, role, access_token, github_username, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.UserID,
		string(s.Role),
		s.AccessToken,
		s.GitHubUsername,
		s.CreatedAt.UTC(),
		s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting session for user %s: %w", s.UserID, err)
	}
	return nil
}

// GetSession returns the session with the given ID, expired or not; the
// caller decides what an expired session means.
func (db *DB) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var (
		s    model.Session
		role string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, role, access_token, github_username, created_at, expires_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.UserID,
		&role,
		&s.AccessToken,
		&s.GitHubUsername,
		&s.CreatedAt,
		&s.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session %s: %w", id, err)
	}
	s.Role = model.Role(role)
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown ID is not an error:
// logout must be idempotent.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting session %s: %w", id, err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions that expired at or before now and
// returns the IDs it removed.
func (db *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `DELETE FROM sessions WHERE expires_at <= ? RETURNING id`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning expired session: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: deleting expired sessions: %w", err)
	}
	return ids, nil
}
