package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/pullquest-dashboard/internal/apperror"
	"github.com/sakif/pullquest-dashboard/internal/auth"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/repository"
)

// DefaultLookupTimeout bounds a single session store lookup.
const DefaultLookupTimeout = 2 * time.Second

// Provider owns the session lifecycle: it resolves the cookie of incoming
// requests, creates sessions on login and clears them on logout, expiry or
// invalidation. Handlers and services only ever read sessions.
type Provider struct {
	store         repository.SessionRepository
	tokens        *auth.TokenService
	logger        *slog.Logger
	lookupTimeout time.Duration
	secure        bool
	now           func() time.Time

	mu      sync.RWMutex
	onClear []func(sessionID string)
}

// NewProvider creates a Provider. Session lifetime follows the token TTL so
// the cookie, the JWT and the stored record expire together.
func NewProvider(store repository.SessionRepository, tokens *auth.TokenService, logger *slog.Logger) *Provider {
	return &Provider{
		store:         store,
		tokens:        tokens,
		logger:        logger,
		lookupTimeout: DefaultLookupTimeout,
		now:           time.Now,
	}
}

// WithSecureCookies marks session cookies Secure (HTTPS deployments).
func (p *Provider) WithSecureCookies(secure bool) *Provider {
	p.secure = secure
	return p
}

// WithLookupTimeout overrides DefaultLookupTimeout.
func (p *Provider) WithLookupTimeout(d time.Duration) *Provider {
	if d > 0 {
		p.lookupTimeout = d
	}
	return p
}

// OnClear registers fn to run whenever a session is cleared, e.g. to drop
// per-session view state.
func (p *Provider) OnClear(fn func(sessionID string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onClear = append(p.onClear, fn)
}

// Resolve determines the session state of r.
//
// A missing or invalid cookie, an unknown session or an expired one is
// Anonymous. Any other store failure leaves the state Loading.
func (p *Provider) Resolve(r *http.Request) State {
	id, err := auth.SessionIDFromRequest(r, p.tokens)
	if err != nil {
		return Anonymous()
	}

	ctx, cancel := context.WithTimeout(r.Context(), p.lookupTimeout)
	defer cancel()

	sess, err := p.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return Anonymous()
		}
		p.logger.Warn("session lookup failed",
			slog.String("session_id", id),
			slog.String("error", err.Error()),
		)
		return Loading()
	}

	if sess.Expired(p.now()) {
		return Anonymous()
	}

	return Authenticated(*sess)
}

// LoginParams describes the identity a new session acts as.
type LoginParams struct {
	UserID         string
	Role           model.Role
	AccessToken    string
	GitHubUsername string
}

// Login creates a session record and sets the session cookie on w.
func (p *Provider) Login(ctx context.Context, w http.ResponseWriter, params LoginParams) (*model.Session, error) {
	now := p.now()
	sess := &model.Session{
		ID:             xid.New().String(),
		UserID:         params.UserID,
		Role:           params.Role,
		AccessToken:    params.AccessToken,
		GitHubUsername: params.GitHubUsername,
		CreatedAt:      now,
		ExpiresAt:      now.Add(p.tokens.TTL()),
	}

	if err := p.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("session: creating session: %w", err)
	}

	token, err := p.tokens.Generate(sess.ID)
	if err != nil {
		// Don't leave an orphan record behind.
		_ = p.store.DeleteSession(ctx, sess.ID)
		return nil, fmt.Errorf("session: issuing token: %w", err)
	}

	auth.SetTokenCookie(w, token, p.tokens.TTL(), p.secure)

	p.logger.Info("session created",
		slog.String("session_id", sess.ID),
		slog.String("user_id", sess.UserID),
		slog.String("role", string(sess.Role)),
	)
	return sess, nil
}

// Logout clears whatever session r carries. It always clears the cookie,
// even when the token no longer validates.
func (p *Provider) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id, err := auth.SessionIDFromRequest(r, p.tokens)
	if err != nil {
		auth.ClearTokenCookie(w, p.secure)
		return nil
	}
	return p.Invalidate(ctx, w, id)
}

// Invalidate deletes the session record, notifies OnClear hooks and clears
// the cookie on w.
func (p *Provider) Invalidate(ctx context.Context, w http.ResponseWriter, sessionID string) error {
	auth.ClearTokenCookie(w, p.secure)
	p.notifyClear(sessionID)

	if err := p.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("session: deleting session %s: %w", sessionID, err)
	}

	p.logger.Info("session cleared", slog.String("session_id", sessionID))
	return nil
}

// Sweep deletes expired sessions once, runs the OnClear hooks for each and
// returns how many were removed.
func (p *Provider) Sweep(ctx context.Context) (int, error) {
	ids, err := p.store.DeleteExpiredSessions(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("session: sweeping expired sessions: %w", err)
	}
	for _, id := range ids {
		p.notifyClear(id)
	}
	return len(ids), nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (p *Provider) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Sweep(ctx)
			if err != nil {
				p.logger.Error("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				p.logger.Info("expired sessions purged", slog.Int("count", n))
			}
		}
	}
}

func (p *Provider) notifyClear(sessionID string) {
	p.mu.RLock()
	hooks := append([]func(string){}, p.onClear...)
	p.mu.RUnlock()

	for _, fn := range hooks {
		fn(sessionID)
	}
}
