package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/repo"
)

const (
	maskedPhone       = "Masqué"
	maskedAddressRune = 20
)

type DeliveryService struct {
	Repo   *repo.GormRepo
	Events mykafka.Publisher
}

// Available lists confirmed orders nobody has claimed yet, with customer
// contact details masked.
func (s *DeliveryService) Available(ctx context.Context) ([]models.Order, error) {
	items, err := s.Repo.ListDeliveryOrders(ctx, models.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	for i := range items {
		maskCustomer(&items[i])
	}
	return items, nil
}

// Mine lists the shipped orders held by agent. Customer contact details stay
// visible, the confirmation code does not.
func (s *DeliveryService) Mine(ctx context.Context, agent *models.User) ([]models.Order, error) {
	items, err := s.Repo.ListDeliveryOrders(ctx, models.StatusShipped, &agent.ID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ConfirmationCode = ""
	}
	return items, nil
}

func maskCustomer(o *models.Order) {
	o.CustomerPhone = maskedPhone
	o.ConfirmationCode = ""
	addr := o.CustomerAddress
	if utf8.RuneCountInString(addr) > maskedAddressRune {
		addr = string([]rune(addr)[:maskedAddressRune]) + "..."
	}
	o.CustomerAddress = "Zone: " + addr
}

// Claim assigns a confirmed, unassigned order to agent and ships it. The
// update only succeeds if nobody claimed it first.
func (s *DeliveryService) Claim(ctx context.Context, id uint, agent *models.User) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "delivery.claim", "order_id", id, "agent", agent.Username)

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.ClaimOrder(ctx, id, agent.ID)
		if err != nil {
			return err
		}
		if !ok {
			return claimFailure(ctx, tx, id)
		}
		return tx.AddHistory(ctx, &models.OrderStatusHistory{OrderID: id, Status: models.StatusShipped, ChangedBy: actorPtr(agent.Username)})
	})
	if err != nil {
		l.Warn("claim_rejected", "error", err)
		return nil, err
	}

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	l.Info("order_claimed")
	publish(ctx, s.Events, mykafka.TopicOrders, o.OrderNumber, orderEvent("order_claimed", o, agent.Username))
	o.ConfirmationCode = ""
	return o, nil
}

func claimFailure(ctx context.Context, r *repo.GormRepo, id uint) error {
	o, err := r.GetOrder(ctx, id)
	if err != nil {
		return notFound(err, "order")
	}
	if o.DeliveryAgentID != nil {
		return ErrAlreadyClaimed
	}
	return fmt.Errorf("%w: status is %s", ErrNotAvailable, o.Status)
}

// Complete marks a shipped order delivered once the agent holding it presents
// the customer's confirmation code.
func (s *DeliveryService) Complete(ctx context.Context, id uint, agent *models.User, code string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "delivery.complete", "order_id", id, "agent", agent.Username)

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.Status != models.StatusShipped {
		return nil, fmt.Errorf("%w: status is %s", ErrNotAvailable, o.Status)
	}
	if o.DeliveryAgentID == nil || *o.DeliveryAgentID != agent.ID {
		l.Warn("complete_rejected", "status", 403, "reason", "not assigned to caller")
		return nil, fmt.Errorf("%w: order is assigned to another agent", ErrForbidden)
	}
	if !strings.EqualFold(strings.TrimSpace(code), o.ConfirmationCode) {
		l.Warn("complete_rejected", "status", 409, "reason", "invalid code")
		return nil, ErrInvalidCode
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.CompleteOrder(ctx, id, agent.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order changed concurrently", ErrNotAvailable)
		}
		return tx.AddHistory(ctx, &models.OrderStatusHistory{OrderID: id, Status: models.StatusDelivered, ChangedBy: actorPtr(agent.Username)})
	})
	if err != nil {
		return nil, err
	}

	o.Status = models.StatusDelivered
	l.Info("order_delivered")
	publish(ctx, s.Events, mykafka.TopicOrders, o.OrderNumber, orderEvent("order_delivered", o, agent.Username))
	o.ConfirmationCode = ""
	return o, nil
}
