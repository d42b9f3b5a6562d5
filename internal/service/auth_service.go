package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AuthService handles credential checks and session lifecycle.
type AuthService struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	sessions *auth.SessionStore
	now      func() time.Time
}

// AuthDependencies bundles collaborators.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Tokens   *auth.TokenManager
	Sessions *auth.SessionStore
	Clock    func() time.Time
}

// LoginResult is what a successful login returns to the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		users:    deps.UserRepo,
		tokens:   deps.Tokens,
		sessions: deps.Sessions,
		now:      clock,
	}
}

// Login verifies the credentials and opens a session. A wrong username
// and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role.String(), s.now())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.sessions.Put(token, user.ID, user.Username)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Logout drops the session for the token. Unknown tokens are a no-op.
func (s *AuthService) Logout(token string) {
	s.sessions.Delete(token)
}

// SessionInfo returns the live session behind a token.
func (s *AuthService) SessionInfo(token string) (auth.Session, bool) {
	return s.sessions.Get(token)
}
