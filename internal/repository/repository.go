// Package repository declares the persistence contracts of the dashboard.
// Implementations live in sub-packages (sqlite).
package repository

import (
	"context"
	"time"

	"github.com/sakif/pullquest-dashboard/internal/model"
)

// UserRepository stores local accounts keyed by GitHub ID.
type UserRepository interface {
	Upsert(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRepository stores session records. GetSession returns an error
// matching apperror.ErrNotFound for unknown IDs. DeleteExpiredSessions
// returns the IDs of the sessions it removed.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error)
}
