package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Orders start pending and are moved by the admin.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is a customer purchase. All monetary amounts are paisa
// (1/100 rupee) so totals never touch floating point.
type Order struct {
	BaseModel
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `gorm:"index" json:"customer_phone"`
	CustomerEmail string     `json:"customer_email"`
	Remark        string     `json:"remark"`
	Status        string     `json:"status"`
	TotalAmount   int64      `json:"total_amount"`
	Items         []OrderItem `json:"items,omitempty"`

	// Take.app mirror state. Sync happens once at creation; a failure is
	// recorded on the row and never fails the order itself.
	TakeAppSynced      bool       `gorm:"column:takeapp_synced" json:"takeapp_synced"`
	TakeAppOrderNumber string     `gorm:"column:takeapp_order_number" json:"takeapp_order_number"`
	TakeAppSyncError   string     `gorm:"column:takeapp_sync_error" json:"takeapp_sync_error,omitempty"`
	TakeAppSyncedAt    *time.Time `gorm:"column:takeapp_synced_at" json:"takeapp_synced_at,omitempty"`
}

// OrderItem is a single line of an order. Price is paisa per unit.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	Variation string    `json:"variation"`
}
