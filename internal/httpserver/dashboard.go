package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/service"
)

type DashboardHTTP struct {
	Svc *service.DashboardService
}

func (h *DashboardHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "get_stats_failed", "cannot compute stats", err)
	}
	return c.JSON(http.StatusOK, st)
}

// Reset soft-deletes every order.
func (h *DashboardHTTP) Reset(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard.reset")

	n, err := h.Svc.Reset(ctx, actor(c))
	if err != nil {
		return fail(l, "reset_stats_failed", "cannot reset orders", err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"deletedOrders": n})
}
