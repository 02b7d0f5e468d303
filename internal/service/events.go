package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
)

// publish sends an event and only logs a failure: the business write has
// already committed.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}

func orderEvent(typ string, o *models.Order, actor string) mykafka.OrderEvent {
	return mykafka.OrderEvent{
		Type:        typ,
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       o.Total.String(),
		Actor:       actor,
		At:          time.Now().UTC(),
	}
}

func productEvent(typ string, p *models.Product) mykafka.ProductEvent {
	return mykafka.ProductEvent{
		Type:      typ,
		ProductID: p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		Active:    p.Active,
		At:        time.Now().UTC(),
	}
}
