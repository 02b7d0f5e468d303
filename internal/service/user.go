package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/sucrestore/internal/hash"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

const minPasswordLen = 6

type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) List(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Repo.ListUsers(ctx, offset, limit)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLen)
	}
	role := models.RoleCustomer
	if req.Role != "" {
		var ok bool
		if role, ok = models.ParseRole(strings.ToUpper(req.Role)); !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
		}
	}

	taken, err := s.Repo.UserTaken(ctx, username, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		l.Warn("create_user_rejected", "status", 409, "username", username)
		return nil, fmt.Errorf("%w: username or email already in use", ErrConflict)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("create_user_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	u := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         role,
		Active:       true,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	l.Info("user_created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Update applies a partial change. Changing role, password or active state
// bumps the token version so existing sessions end.
func (s *UserService) Update(ctx context.Context, id uint, req transport.PatchUserRequest) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	revoke := false
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		taken, err := s.Repo.UserTaken(ctx, u.Username, email, u.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: email already in use", ErrConflict)
		}
		u.Email = email
	}
	if req.Role != nil {
		role, ok := models.ParseRole(strings.ToUpper(*req.Role))
		if !ok {
			return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, *req.Role)
		}
		revoke = revoke || role != u.Role
		u.Role = role
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, fmt.Errorf("%w: password must have at least %d characters", ErrValidation, minPasswordLen)
		}
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = pwHash
		revoke = true
	}
	if req.Active != nil {
		revoke = revoke || *req.Active != u.Active
		u.Active = *req.Active
	}

	if err := s.Repo.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	if revoke {
		if u.TokenVersion, err = s.Repo.BumpTokenVersion(ctx, u.ID, nil); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// SeedAdmin creates the first SUPER_ADMIN when no user exists. It reports
// whether an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	n, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if password == "" {
		return false, fmt.Errorf("%w: admin password required to seed the first account", ErrValidation)
	}
	_, err = s.Create(ctx, transport.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     string(models.RoleSuperAdmin),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}
