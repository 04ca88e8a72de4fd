package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Order represents a customer order for a single product.
//
// UserID and CreatedAt are only written on insert, so a later Save can never
// move an order to another owner or rewrite its creation time.
type Order struct {
	ID        string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID string      `json:"product_id" gorm:"type:varchar(36);index;not null"`
	Product   *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	UserID    string      `json:"user_id" gorm:"<-:create;type:varchar(36);index;not null"`
	Quantity  int         `json:"quantity"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:pending;check:chk_orders_status,status IN ('pending','completed','canceled')"`
	CreatedAt time.Time   `json:"created_at" gorm:"<-:create"`
	UpdatedAt time.Time   `json:"updated_at"`
}
