package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	authmw "github.com/Skotchmaster/sucrestore/internal/middleware/auth"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/transport"
	"github.com/Skotchmaster/sucrestore/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func actor(c echo.Context) string {
	if u, ok := authmw.CurrentUser(c); ok {
		return u.Username
	}
	return ""
}

// CreateOrder is the guest checkout.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "order_create_failed", "invalid body", err)
	}

	o, link, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		return fail(l, "order_create_failed", "cannot create order", err)
	}

	l.Info("order_create_success", "order_number", o.OrderNumber, "total", o.Total.String())
	return c.JSON(http.StatusCreated, transport.OrderCreatedResponse{
		OrderNumber:  o.OrderNumber,
		TotalAmount:  o.Total,
		Status:       string(o.Status),
		WhatsappLink: link,
	})
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), offset, limit)
	if err != nil {
		return fail(l, "get_orders_failed", "cannot list orders", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.NewMeta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "get_order_failed", "invalid id", err)
	}
	o, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_failed", "cannot get order", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.history")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "get_history_failed", "invalid id", err)
	}
	hist, err := h.Svc.History(ctx, id)
	if err != nil {
		return fail(l, "get_history_failed", "cannot get history", err)
	}
	return c.JSON(http.StatusOK, hist)
}

// WhatsAppNotification returns a wa.me link telling the customer about the
// order's current status. ?phone= overrides the number on the order.
func (h *OrderHTTP) WhatsAppNotification(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.whatsapp_notification")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "notification_failed", "invalid id", err)
	}
	link, err := h.Svc.NotificationLink(ctx, id, c.QueryParam("phone"))
	if err != nil {
		return fail(l, "notification_failed", "cannot build link", err)
	}
	return c.JSON(http.StatusOK, transport.LinkResponse{WhatsappLink: link})
}

// Sync returns orders changed after ?updatedAfter= (RFC 3339), deleted ones
// included.
func (h *OrderHTTP) Sync(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.sync")

	var after *time.Time
	if raw := c.QueryParam("updatedAfter"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return badRequest(l, "sync_failed", "updatedAfter must be RFC 3339", err)
		}
		after = &t
	}

	items, err := h.Svc.Sync(ctx, after)
	if err != nil {
		return fail(l, "sync_failed", "cannot list orders", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "update_status_failed", "invalid id", err)
	}
	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_status_failed", "invalid body", err)
	}

	o, err := h.Svc.UpdateStatus(ctx, id, req.Status, actor(c))
	if err != nil {
		return fail(l, "update_status_failed", "cannot update status", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := parseID(c)
	if err != nil {
		return badRequest(l, "order_delete_failed", "invalid id", err)
	}
	if err := h.Svc.Delete(ctx, id, actor(c)); err != nil {
		return fail(l, "order_delete_failed", "cannot delete order", err)
	}

	l.Info("order_delete_success", "order_id", id)
	return c.NoContent(http.StatusNoContent)
}
