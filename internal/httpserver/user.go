package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
	"github.com/Skotchmaster/sucrestore/internal/util"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.List(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_users_failed", "cannot list users", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "get_user_failed", "invalid id", err)
	}
	u, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", "cannot get user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "user_create_failed", "invalid body", err)
	}
	u, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "user_create_failed", "cannot create user", err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "user_update_failed", "invalid id", err)
	}
	var req transport.PatchUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "user_update_failed", "invalid body", err)
	}
	return h.update(c, l, id, req)
}

func (h *UserHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_role")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "user_update_failed", "invalid id", err)
	}
	var req transport.RoleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "user_update_failed", "invalid body", err)
	}
	return h.update(c, l, id, transport.PatchUserRequest{Role: &req.Role})
}

func (h *UserHTTP) update(c echo.Context, l *slog.Logger, id uint, req transport.PatchUserRequest) error {
	u, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(l, "user_update_failed", "cannot update user", err)
	}
	l.Info("user_update_success", "user_id", u.ID)
	return c.JSON(http.StatusOK, u)
}
