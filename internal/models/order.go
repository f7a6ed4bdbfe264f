package models

import "time"

// Order represents a customer order. Everything on it is frozen at
// creation time: later catalog edits never change a persisted order.
type Order struct {
	ID             string         `json:"id" gorm:"primary_key;size:36"`
	OrganizationID string         `json:"organization_id" gorm:"size:36;index;not null"`
	UserID         string         `json:"user_id" gorm:"size:36;index;not null"`
	TableLabel     string         `json:"table_label" gorm:"size:60"`
	Status         OrderStatus    `json:"status" gorm:"size:20;not null"`
	Quantity       int            `json:"quantity"`
	TotalPrice     float64        `json:"total_price"`
	Products       []OrderProduct `json:"products" gorm:"foreignkey:OrderID"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      *time.Time     `json:"deleted_at" sql:"index"`
}

// OrderProduct is one snapshot line of an order: a copy of the product's
// catalog state plus the requested quantity at the moment of creation.
type OrderProduct struct {
	ID              uint    `json:"id" gorm:"primary_key"`
	OrderID         string  `json:"order_id" gorm:"size:36;index;not null"`
	Name            string  `json:"name" gorm:"size:120;not null"`
	ImageURL        string  `json:"image_url"`
	CategoryLabel   string  `json:"category_label" gorm:"size:140"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountApplied bool    `json:"discount_applied"`
	Quantity        int     `json:"quantity"`
}

// OrderStatus represents the possible states of an order.
type OrderStatus string

const (
	OrderStatusWaiting      OrderStatus = "WAITING"
	OrderStatusInProduction OrderStatus = "IN_PRODUCTION"
	OrderStatusDone         OrderStatus = "DONE"
	OrderStatusCanceled     OrderStatus = "CANCELED"
)

// Valid reports whether s is one of the four known states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusWaiting, OrderStatusInProduction, OrderStatusDone, OrderStatusCanceled:
		return true
	}
	return false
}

// Progression reports whether s may be the target of a generic status
// update. CANCELED is reachable only through Cancel and RestartDay.
func (s OrderStatus) Progression() bool {
	switch s {
	case OrderStatusWaiting, OrderStatusInProduction, OrderStatusDone:
		return true
	}
	return false
}
