package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	authmw "github.com/Skotchmaster/sucrestore/internal/middleware/auth"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_failed", "invalid body", err)
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", "cannot log in", err)
	}

	l.Info("login_success", "username", res.User.Username)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token:     res.Token,
		Type:      "Bearer",
		Username:  res.User.Username,
		Role:      string(res.User.Role),
		ExpiresAt: res.ExpiresAt,
	})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	u, ok := authmw.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return c.JSON(http.StatusOK, transport.MeResponse{Username: u.Username, Role: string(u.Role)})
}
