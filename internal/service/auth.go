package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/sucrestore/internal/hash"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TTL       time.Duration
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Login checks the credentials and issues a token bound to a fresh token
// version, which invalidates every token issued before.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if isRecordNotFound(err) {
			l.Warn("login_failed", "status", 401, "reason", "unknown user")
			return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "bad password")
		return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	if !user.Active {
		l.Warn("login_failed", "status", 401, "reason", "inactive user")
		return nil, fmt.Errorf("%w: account disabled", ErrUnauthorized)
	}

	now := time.Now().UTC()
	version, err := s.Repo.BumpTokenVersion(ctx, user.ID, &now)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot bump token version", "error", err)
		return nil, err
	}
	user.TokenVersion = version
	user.LastLogin = &now

	token, exp, err := tokens.NewAccessToken(s.JWTSecret, user.Username, string(user.Role), version, now, s.TTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_ok", "role", user.Role)
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Identity resolves the user behind validated claims. A stale token version
// or a disabled account yields ErrUnauthorized.
func (s *AuthService) Identity(ctx context.Context, claims *tokens.AccessClaims) (*models.User, error) {
	if claims == nil || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.Repo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active || user.TokenVersion != claims.Version {
		return nil, ErrUnauthorized
	}
	return user, nil
}
