package authmw

import (
	"context"
	"errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/policy"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/tokens"
)

const (
	tokenKey = "jwt"
	userKey  = "user"
)

// IdentityResolver maps validated claims to a live user.
type IdentityResolver interface {
	Identity(ctx context.Context, claims *tokens.AccessClaims) (*models.User, error)
}

type Auth struct {
	JWTSecret []byte
	Users     IdentityResolver
}

func New(secret []byte, users IdentityResolver) *Auth {
	return &Auth{JWTSecret: secret, Users: users}
}

// Authenticate parses an optional Bearer token. A missing or bad token is
// not an error here; the request simply continues without identity and the
// route gates decide.
func (a *Auth) Authenticate() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  tokenKey,
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(_ echo.Context, raw string) (any, error) {
			return tokens.AccessClaimsFromToken(raw, a.JWTSecret)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
	})
}

// Session checks the token version and active flag of the token's user and
// stores the user in the context when both still match.
func (a *Auth) Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(tokenKey).(*tokens.AccessClaims)
		if !ok {
			return next(c)
		}

		ctx := c.Request().Context()
		u, err := a.Users.Identity(ctx, claims)
		switch {
		case err == nil:
			c.Set(userKey, u)
			c.Set("username", u.Username)
			c.Set("role", string(u.Role))
		case errors.Is(err, service.ErrUnauthorized):
			logging.FromContext(ctx).Warn("session_rejected", "username", claims.Subject, "reason", "stale token or inactive user")
		default:
			logging.FromContext(ctx).Error("session_lookup_failed", "username", claims.Subject, "error", err)
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok && u != nil
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := CurrentUser(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// RequireAction lets the request through only when the caller's role is
// allowed to perform action.
func RequireAction(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !policy.Allowed(u.Role, action) {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "role", u.Role, "action", action)
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}
