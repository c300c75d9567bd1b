package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/pullquest-dashboard/internal/auth"
	"github.com/sakif/pullquest-dashboard/internal/model"
	"github.com/sakif/pullquest-dashboard/internal/repository"
	"github.com/sakif/pullquest-dashboard/internal/session"
)

// AuthService turns a completed GitHub OAuth flow into a local user and
// the parameters of a new session.
//
//	AuthHandler (HTTP) → AuthService → UserRepository (DB)
//	                   ↘ session.Provider (cookie + session record)
//
// It does not touch HTTP; the handler hands the result to the session
// provider, which sets the cookie.
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// AuthResult is the local user and the session to create for it.
type AuthResult struct {
	User    *model.User
	Session session.LoginParams
}

// LoginOrRegisterGitHub upserts the GitHub user under role. First login
// inserts; later logins refresh login, email, avatar and role.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, login *auth.GitHubLogin, role model.Role) (*AuthResult, error) {
	if login == nil {
		return nil, errors.New("service/auth: GitHub login must not be nil")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("service/auth: unknown role %q", role)
	}

	user := &model.User{
		GitHubID:  login.User.ID,
		Login:     login.User.Login,
		Email:     login.User.Email,
		AvatarURL: login.User.AvatarURL,
		Role:      role,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", login.User.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("login", user.Login),
		slog.String("role", string(role)),
	)

	return &AuthResult{
		User: user,
		Session: session.LoginParams{
			UserID:         user.ID,
			Role:           role,
			// The PullQuest backend verifies GitHub tokens itself.
			AccessToken:    login.AccessToken,
			GitHubUsername: user.Login,
		},
	}, nil
}

// GetUserByID returns the local account behind a session.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, errors.New("service/auth: user ID must not be empty")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}

	return user, nil
}
