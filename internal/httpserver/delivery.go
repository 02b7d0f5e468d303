package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	authmw "github.com/Skotchmaster/sucrestore/internal/middleware/auth"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

type DeliveryHTTP struct {
	Svc *service.DeliveryService
}

func (h *DeliveryHTTP) Available(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.available")

	items, err := h.Svc.Available(ctx)
	if err != nil {
		return fail(l, "delivery_list_failed", "cannot list orders", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *DeliveryHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.mine")

	agent, _ := authmw.CurrentUser(c)
	items, err := h.Svc.Mine(ctx, agent)
	if err != nil {
		return fail(l, "delivery_list_failed", "cannot list orders", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *DeliveryHTTP) Claim(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.claim")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "claim_failed", "invalid id", err)
	}
	agent, _ := authmw.CurrentUser(c)

	o, err := h.Svc.Claim(ctx, id, agent)
	if err != nil {
		return fail(l, "claim_failed", "cannot claim order", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *DeliveryHTTP) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delivery.complete")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "complete_failed", "invalid id", err)
	}
	var req transport.CompleteDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "complete_failed", "invalid body", err)
	}
	agent, _ := authmw.CurrentUser(c)

	o, err := h.Svc.Complete(ctx, id, agent, req.Code)
	if err != nil {
		return fail(l, "complete_failed", "cannot complete delivery", err)
	}
	return c.JSON(http.StatusOK, o)
}
