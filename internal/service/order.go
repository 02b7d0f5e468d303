package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/notify"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

const (
	SettingStoreName      = "store_name"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingContactPhone   = "contact_phone"
)

const defaultSyncWindow = 30 * 24 * time.Hour

type OrderService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
	// Store holds the configured shop identity; settings override it.
	Store notify.Store
}

// CreateOrder places a guest order. Stock is taken line by line inside one
// transaction, so either every line is reserved or none is.
func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, string, error) {
	l := logging.FromContext(ctx).With("svc", "order.create")

	if err := validateCreateOrder(req); err != nil {
		l.Warn("create_order_rejected", "status", 400, "reason", err.Error())
		return nil, "", err
	}

	order := &models.Order{
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerAddress: strings.TrimSpace(req.CustomerAddress),
		CustomerNotes:   strings.TrimSpace(req.CustomerNotes),
		CustomerLat:     nullDecimal(req.CustomerLatitude),
		CustomerLon:     nullDecimal(req.CustomerLongitude),
		Tax:             decimal.Zero,
		Status:          models.StatusPending,
	}

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		subtotal := decimal.Zero
		for _, line := range req.Items {
			p, err := tx.GetProduct(ctx, line.ProductID)
			if err != nil || !p.Active {
				if err == nil || isRecordNotFound(err) {
					return fmt.Errorf("%w: product %d", ErrNotFound, line.ProductID)
				}
				return err
			}

			ok, err := tx.DecrementStock(ctx, p.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
			}

			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.Quantity,
				UnitPrice:   p.Price,
				TotalPrice:  lineTotal,
			})
			subtotal = subtotal.Add(lineTotal)
		}
		order.Subtotal = subtotal
		order.Total = subtotal.Add(order.Tax)

		var err error
		if order.OrderNumber, err = newOrderNumber(ctx, tx); err != nil {
			return err
		}
		if order.ConfirmationCode, err = newConfirmationCode(ctx, tx); err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.AddHistory(ctx, &models.OrderStatusHistory{OrderID: order.ID, Status: models.StatusPending})
	})
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return nil, "", err
	}

	l.Info("order_created", "order_id", order.ID, "order_number", order.OrderNumber, "total", order.Total.String())
	publish(ctx, s.Events, mykafka.TopicOrders, order.OrderNumber, orderEvent("order_created", order, ""))
	return order, notify.NewOrderLink(order, s.StoreInfo(ctx)), nil
}

func validateCreateOrder(req transport.CreateOrderRequest) error {
	switch {
	case strings.TrimSpace(req.CustomerName) == "":
		return fmt.Errorf("%w: customerName required", ErrValidation)
	case strings.TrimSpace(req.CustomerPhone) == "":
		return fmt.Errorf("%w: customerPhone required", ErrValidation)
	case strings.TrimSpace(req.CustomerAddress) == "":
		return fmt.Errorf("%w: customerAddress required", ErrValidation)
	case len(req.Items) == 0:
		return fmt.Errorf("%w: items required", ErrValidation)
	}
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return fmt.Errorf("%w: productId required", ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}
	return nil
}

func newOrderNumber(ctx context.Context, r *repo.GormRepo) (string, error) {
	for {
		n := "ORD-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + fmt.Sprintf("%03d", rand.IntN(1000))
		taken, err := r.OrderNumberTaken(ctx, n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
	}
}

func newConfirmationCode(ctx context.Context, r *repo.GormRepo) (string, error) {
	for {
		c := "CONF-" + strconv.Itoa(1000+rand.IntN(9000))
		taken, err := r.ConfirmationCodeTaken(ctx, c)
		if err != nil {
			return "", err
		}
		if !taken {
			return c, nil
		}
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	var filter *models.OrderStatus
	if status != "" {
		st, ok := models.ParseOrderStatus(strings.ToUpper(status))
		if !ok {
			return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		filter = &st
	}
	return s.Repo.ListOrders(ctx, filter, offset, limit)
}

// UpdateStatus applies one step of the transition table. Moving to CANCELLED
// gives the reserved stock back.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status, actor string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id)

	to, ok := models.ParseOrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if from.Terminal() {
		l.Warn("update_status_rejected", "status", 409, "reason", "order closed", "from", from)
		return nil, fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	}
	if !models.CanTransition(from, to) {
		l.Warn("update_status_rejected", "status", 409, "from", from, "to", to)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		moved, err := tx.SetOrderStatus(ctx, id, from, to)
		if err != nil {
			return err
		}
		if !moved {
			return fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
		}
		if to == models.StatusCancelled {
			for _, it := range o.Items {
				if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}
		return tx.AddHistory(ctx, &models.OrderStatusHistory{OrderID: id, Status: to, ChangedBy: actorPtr(actor)})
	})
	if err != nil {
		return nil, err
	}

	o.Status = to
	l.Info("order_status_changed", "from", from, "to", to, "actor", actor)
	publish(ctx, s.Events, mykafka.TopicOrders, o.OrderNumber, orderEvent("order_status_changed", o, actor))
	return o, nil
}

func (s *OrderService) History(ctx context.Context, id uint) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.Repo.ListHistory(ctx, id)
}

// NotificationLink builds the message the shop sends to the customer about
// the current status. phone, when set, replaces the number on the order.
func (s *OrderService) NotificationLink(ctx context.Context, id uint, phone string) (string, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return "", err
	}
	return notify.StatusLink(o, phone, s.StoreInfo(ctx)), nil
}

func (s *OrderService) Delete(ctx context.Context, id uint, actor string) error {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.SoftDeleteOrder(ctx, id); err != nil {
		return notFound(err, "order")
	}
	o.Deleted = true
	publish(ctx, s.Events, mykafka.TopicOrders, o.OrderNumber, orderEvent("order_deleted", o, actor))
	return nil
}

// Sync lists orders changed after the given instant, deleted ones included.
func (s *OrderService) Sync(ctx context.Context, after *time.Time) ([]models.Order, error) {
	since := time.Now().UTC().Add(-defaultSyncWindow)
	if after != nil {
		since = *after
	}
	return s.Repo.ListOrdersUpdatedAfter(ctx, since)
}

// StoreInfo merges stored settings over the configured shop identity.
func (s *OrderService) StoreInfo(ctx context.Context) notify.Store {
	st := s.Store
	override := func(key string, dst *string) {
		set, err := s.Repo.GetSetting(ctx, key)
		if err == nil && strings.TrimSpace(set.Value) != "" {
			*dst = set.Value
		}
	}
	override(SettingStoreName, &st.Name)
	override(SettingWhatsAppNumber, &st.WhatsAppNumber)
	override(SettingContactPhone, &st.Phone)
	return st
}

func actorPtr(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
