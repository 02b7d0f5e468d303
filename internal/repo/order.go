package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sucrestore/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Omit("DeliveryAgent").Create(o).Error
}

func (r *GormRepo) OrderNumberTaken(ctx context.Context, number string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("order_number = ?", number).Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ConfirmationCodeTaken(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("confirmation_code = ?", code).Count(&n).Error
	return n > 0, err
}

// GetOrder loads a live (not deleted) order with its items and agent.
func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Preload("DeliveryAgent").
		Where("deleted = ?", false).
		First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status *models.OrderStatus, offset, limit int) (int64, []models.Order, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Where("deleted = ?", false)
		if status != nil {
			db = db.Where("status = ?", *status)
		}
		return db
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Scopes(scope).
		Preload("Items").
		Preload("DeliveryAgent").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

// ListDeliveryOrders returns live orders in status. With agentID nil only
// unassigned orders are returned, otherwise only those of that agent.
func (r *GormRepo) ListDeliveryOrders(ctx context.Context, status models.OrderStatus, agentID *uint) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).
		Preload("Items").
		Where("deleted = ? AND status = ?", false, status)
	if agentID == nil {
		q = q.Where("delivery_agent_id IS NULL")
	} else {
		q = q.Where("delivery_agent_id = ?", *agentID)
	}

	var items []models.Order
	if err := q.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListOrdersUpdatedAfter(ctx context.Context, after time.Time) ([]models.Order, error) {
	var items []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("updated_at > ?", after).
		Order("updated_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SetOrderStatus moves a live order from one status to another and reports
// whether the row was still in from.
func (r *GormRepo) SetOrderStatus(ctx context.Context, id uint, from, to models.OrderStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND deleted = ?", id, from, false).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) ClaimOrder(ctx context.Context, id, agentID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_agent_id IS NULL AND deleted = ?", id, models.StatusConfirmed, false).
		Updates(map[string]any{
			"status":            models.StatusShipped,
			"delivery_agent_id": agentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) CompleteOrder(ctx context.Context, id, agentID uint) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ? AND delivery_agent_id = ? AND deleted = ?", id, models.StatusShipped, agentID, false).
		Update("status", models.StatusDelivered)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) SoftDeleteOrder(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SoftDeleteAllOrders(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("deleted = ?", false).
		Update("deleted", true)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) AddHistory(ctx context.Context, h *models.OrderStatusHistory) error {
	return r.DB.WithContext(ctx).Create(h).Error
}

func (r *GormRepo) ListHistory(ctx context.Context, orderID uint) ([]models.OrderStatusHistory, error) {
	var items []models.OrderStatusHistory
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Name: "created_at"}, Desc: true},
			{Column: clause.Column{Name: "id"}, Desc: true},
		}}).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

type OrderStats struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Revenue   decimal.Decimal
}

func (r *GormRepo) OrderStats(ctx context.Context) (OrderStats, error) {
	var rows []struct {
		Status string
		N      int64
	}
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS n").
		Where("deleted = ?", false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return OrderStats{}, err
	}

	var st OrderStats
	for _, row := range rows {
		st.Total += row.N
		switch models.OrderStatus(row.Status) {
		case models.StatusPending:
			st.Pending = row.N
		case models.StatusConfirmed:
			st.Confirmed = row.N
		}
	}

	var revenue decimal.NullDecimal
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total)").
		Where("deleted = ?", false).
		Row().Scan(&revenue); err != nil {
		return OrderStats{}, err
	}
	st.Revenue = decimal.Zero
	if revenue.Valid {
		st.Revenue = revenue.Decimal
	}
	return st, nil
}
