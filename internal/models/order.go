package models

import (
	"fmt"
	"strings"
	"time"
)

// Order status values. The set is closed: admin updates are validated
// against it and unrecognized input is rejected, never persisted.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// NormalizeOrderStatus lower-cases display-case input ("Delivered") and
// checks it against the closed status set.
func NormalizeOrderStatus(s string) (string, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(s)); normalized {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid order status: %q", s)
	}
}

// Order is produced exactly once by finalizing a checkout; the unique index
// on CheckoutID backs the at-most-once guarantee at the storage layer.
// Customers never mutate orders; status moves via admin updates only.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CheckoutID      string          `json:"checkout_id" gorm:"uniqueIndex;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []LineItem      `json:"items" gorm:"serializer:json"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	TotalPrice      float64         `json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
