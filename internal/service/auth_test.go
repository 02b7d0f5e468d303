package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/tokens"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

var testSecret = []byte("test-secret")

func TestLogin_RotatesTokenVersion(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "gerant", models.RoleManager)
	svc := &AuthService{Repo: r, JWTSecret: testSecret, TTL: time.Hour}

	first, err := svc.Login(ctx, "gerant", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, first.User.Role)
	assert.NotNil(t, first.User.LastLogin)

	claims, err := tokens.AccessClaimsFromToken(first.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "gerant", claims.Subject)
	assert.Equal(t, "MANAGER", claims.Role)

	u, err := svc.Identity(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "gerant", u.Username)

	second, err := svc.Login(ctx, "gerant", "secret123")
	require.NoError(t, err)

	_, err = svc.Identity(ctx, claims)
	assert.ErrorIs(t, err, ErrUnauthorized, "older session must be rejected")

	claims2, err := tokens.AccessClaimsFromToken(second.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, claims.Version+1, claims2.Version)
	_, err = svc.Identity(ctx, claims2)
	assert.NoError(t, err)
}

func TestLogin_Failures(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	u := seedUser(t, r, "livreur", models.RoleDeliveryAgent)
	svc := &AuthService{Repo: r, JWTSecret: testSecret, TTL: time.Hour}

	_, err := svc.Login(ctx, "livreur", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	u.Active = false
	require.NoError(t, r.SaveUser(ctx, u))
	_, err = svc.Login(ctx, "livreur", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserUpdate_RevokesSessions(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "admin2", models.RoleAdmin)
	auth := &AuthService{Repo: r, JWTSecret: testSecret, TTL: time.Hour}
	users := &UserService{Repo: r}

	res, err := auth.Login(ctx, "admin2", "secret123")
	require.NoError(t, err)
	claims, err := tokens.AccessClaimsFromToken(res.Token, testSecret)
	require.NoError(t, err)

	email := "new@example.com"
	_, err = users.Update(ctx, res.User.ID, transport.PatchUserRequest{Email: &email})
	require.NoError(t, err)
	_, err = auth.Identity(ctx, claims)
	require.NoError(t, err, "email change keeps the session")

	role := "manager"
	u, err := users.Update(ctx, res.User.ID, transport.PatchUserRequest{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, u.Role)
	_, err = auth.Identity(ctx, claims)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserCreate(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	users := &UserService{Repo: r}

	u, err := users.Create(ctx, transport.CreateUserRequest{
		Username: "moussa", Email: "moussa@example.com", Password: "longenough", Role: "delivery_agent",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDeliveryAgent, u.Role)
	assert.NotEqual(t, "longenough", u.PasswordHash)

	_, err = users.Create(ctx, transport.CreateUserRequest{
		Username: "moussa", Email: "other@example.com", Password: "longenough",
	})
	assert.ErrorIs(t, err, ErrConflict)

	tests := []struct {
		name string
		req  transport.CreateUserRequest
	}{
		{"bad email", transport.CreateUserRequest{Username: "a", Email: "nope", Password: "longenough"}},
		{"short password", transport.CreateUserRequest{Username: "b", Email: "b@example.com", Password: "123"}},
		{"bad role", transport.CreateUserRequest{Username: "c", Email: "c@example.com", Password: "longenough", Role: "ROOT"}},
		{"no username", transport.CreateUserRequest{Email: "d@example.com", Password: "longenough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Create(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSeedAdmin(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	users := &UserService{Repo: r}

	_, err := users.SeedAdmin(ctx, "admin", "admin@example.com", "")
	assert.ErrorIs(t, err, ErrValidation)

	created, err := users.SeedAdmin(ctx, "admin", "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.SeedAdmin(ctx, "admin", "admin@example.com", "changeme")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := r.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, u.Role)
}
