package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: nil,
	StatusCancelled: nil,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := transitions[st]
	return st, ok
}

func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether an order in status from may move to status to.
func CanTransition(from, to OrderStatus) bool {
	return slices.Contains(transitions[from], to)
}

type Order struct {
	ID               uint                 `gorm:"primaryKey;autoIncrement"       json:"id"`
	OrderNumber      string               `gorm:"size:32;uniqueIndex;not null"   json:"orderNumber"`
	ConfirmationCode string               `gorm:"size:16;uniqueIndex;not null"   json:"confirmationCode"`
	CustomerName     string               `gorm:"size:255;not null"              json:"customerName"`
	CustomerPhone    string               `gorm:"size:50;not null"               json:"customerPhone"`
	CustomerAddress  string               `gorm:"type:text;not null"             json:"customerAddress"`
	CustomerNotes    string               `gorm:"type:text"                      json:"customerNotes"`
	CustomerLat      decimal.NullDecimal  `gorm:"type:numeric(10,7)"             json:"customerLatitude"`
	CustomerLon      decimal.NullDecimal  `gorm:"type:numeric(10,7)"             json:"customerLongitude"`
	Subtotal         decimal.Decimal      `gorm:"type:numeric(12,2);not null"    json:"subtotal"`
	Tax              decimal.Decimal      `gorm:"type:numeric(12,2);not null"    json:"tax"`
	Total            decimal.Decimal      `gorm:"type:numeric(12,2);not null"    json:"total"`
	Status           OrderStatus          `gorm:"size:20;not null;index"         json:"status"`
	DeliveryAgentID  *uint                `gorm:"index"                          json:"deliveryAgentId"`
	DeliveryAgent    *User                `json:"deliveryAgent,omitempty"`
	Deleted          bool                 `gorm:"not null;index"                 json:"deleted"`
	Items            []OrderItem          `gorm:"constraint:OnDelete:CASCADE"    json:"items"`
	History          []OrderStatusHistory `gorm:"constraint:OnDelete:CASCADE"    json:"-"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `gorm:"index"                          json:"updatedAt"`
}

// OrderItem is a snapshot taken at checkout; later catalog edits never touch it.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"      json:"id"`
	OrderID     uint            `gorm:"index;not null"                json:"orderId"`
	ProductID   uint            `gorm:"index;not null"                json:"productId"`
	ProductName string          `gorm:"size:255;not null"             json:"productName"`
	Quantity    int             `gorm:"not null;check:quantity > 0"   json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"   json:"totalPrice"`
}

type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint        `gorm:"index;not null"            json:"orderId"`
	Status    OrderStatus `gorm:"size:20;not null"          json:"status"`
	ChangedBy *string     `gorm:"size:64"                   json:"changedBy"`
	CreatedAt time.Time   `gorm:"index"                     json:"createdAt"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
