package transport

import (
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderRequest is a guest checkout: customer details are captured on
// the order itself.
type CreateOrderRequest struct {
	CustomerName      string             `json:"customerName"`
	CustomerPhone     string             `json:"customerPhone"`
	CustomerAddress   string             `json:"customerAddress"`
	CustomerNotes     string             `json:"customerNotes"`
	CustomerLatitude  *decimal.Decimal   `json:"customerLatitude"`
	CustomerLongitude *decimal.Decimal   `json:"customerLongitude"`
	Items             []OrderItemRequest `json:"items"`
}

type OrderCreatedResponse struct {
	OrderNumber  string          `json:"orderNumber"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       string          `json:"status"`
	WhatsappLink string          `json:"whatsappLink"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CompleteDeliveryRequest struct {
	Code string `json:"code"`
}

type LinkResponse struct {
	WhatsappLink string `json:"whatsappLink"`
}

type DashboardStats struct {
	TotalOrders     int64           `json:"totalOrders"`
	TotalProducts   int64           `json:"totalProducts"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	PendingOrders   int64           `json:"pendingOrders"`
	ConfirmedOrders int64           `json:"confirmedOrders"`
}
