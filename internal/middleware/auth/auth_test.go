package authmw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/policy"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/tokens"
)

var secret = []byte("mw-secret")

type fakeUsers map[string]*models.User

func (f fakeUsers) Identity(_ context.Context, claims *tokens.AccessClaims) (*models.User, error) {
	u, ok := f[claims.Subject]
	if !ok || !u.Active || u.TokenVersion != claims.Version {
		return nil, service.ErrUnauthorized
	}
	return u, nil
}

func newServer(users fakeUsers) *echo.Echo {
	e := echo.New()
	a := New(secret, users)
	g := e.Group("", a.Authenticate(), a.Session)

	g.GET("/public", func(c echo.Context) error {
		_, ok := CurrentUser(c)
		if ok {
			return c.String(http.StatusOK, "known")
		}
		return c.String(http.StatusOK, "anonymous")
	})
	g.GET("/me", func(c echo.Context) error {
		u, _ := CurrentUser(c)
		return c.String(http.StatusOK, u.Username)
	}, RequireAuth)
	g.GET("/role", func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		return c.String(http.StatusOK, role)
	})
	g.DELETE("/stats", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAction(policy.DashboardReset))
	return e
}

func bearer(t *testing.T, username string, role models.Role, version int64) string {
	t.Helper()
	tok, _, err := tokens.NewAccessToken(secret, username, string(role), version, time.Now(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func expired(t *testing.T, username string, version int64) string {
	t.Helper()
	tok, _, err := tokens.NewAccessToken(secret, username, "", version, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func foreign(t *testing.T, username string, version int64) string {
	t.Helper()
	tok, _, err := tokens.NewAccessToken([]byte("other-secret"), username, "", version, time.Now(), time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func do(e *echo.Echo, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthGates(t *testing.T) {
	users := fakeUsers{
		"root":    {ID: 1, Username: "root", Role: models.RoleSuperAdmin, Active: true, TokenVersion: 3},
		"gerant":  {ID: 2, Username: "gerant", Role: models.RoleManager, Active: true, TokenVersion: 1},
		"retired": {ID: 3, Username: "retired", Role: models.RoleAdmin, Active: false, TokenVersion: 1},
	}
	e := newServer(users)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
		body   string
	}{
		{"public without token", http.MethodGet, "/public", "", 200, "anonymous"},
		{"public with garbage token", http.MethodGet, "/public", "Bearer nope", 200, "anonymous"},
		{"public with valid token", http.MethodGet, "/public", bearer(t, "root", models.RoleSuperAdmin, 3), 200, "known"},
		{"public with expired token", http.MethodGet, "/public", expired(t, "root", 3), 200, "anonymous"},
		{"public with foreign signature", http.MethodGet, "/public", foreign(t, "root", 3), 200, "anonymous"},
		{"me without token", http.MethodGet, "/me", "", 401, ""},
		{"me with stale version", http.MethodGet, "/me", bearer(t, "root", models.RoleSuperAdmin, 2), 401, ""},
		{"me with inactive user", http.MethodGet, "/me", bearer(t, "retired", models.RoleAdmin, 1), 401, ""},
		{"me ok", http.MethodGet, "/me", bearer(t, "gerant", models.RoleManager, 1), 200, "gerant"},
		{"reset as manager", http.MethodDelete, "/stats", bearer(t, "gerant", models.RoleManager, 1), 403, ""},
		{"reset as super admin", http.MethodDelete, "/stats", bearer(t, "root", models.RoleSuperAdmin, 3), 204, ""},
		{"reset anonymous", http.MethodDelete, "/stats", "", 401, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.path, tt.auth)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRoleInTokenIsNotTrusted(t *testing.T) {
	users := fakeUsers{
		"livreur": {ID: 9, Username: "livreur", Role: models.RoleDeliveryAgent, Active: true},
	}
	e := newServer(users)

	// the token claims SUPER_ADMIN but the stored role decides
	rec := do(e, http.MethodDelete, "/stats", bearer(t, "livreur", models.RoleSuperAdmin, 0))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/role", bearer(t, "livreur", models.RoleSuperAdmin, 0))
	assert.Equal(t, string(models.RoleDeliveryAgent), rec.Body.String())
}
