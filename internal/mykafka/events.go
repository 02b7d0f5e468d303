package mykafka

import "time"

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     uint      `json:"orderID"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	Total       string    `json:"total,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	At          time.Time `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID uint      `json:"productID"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	At        time.Time `json:"at"`
}

type ImportEvent struct {
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	Total       int       `json:"total"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Deactivated int64     `json:"deactivated"`
	Errors      int       `json:"errors"`
	At          time.Time `json:"at"`
}
