package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"
)

// Payment status values a checkout moves through.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// ShippingAddress is the full postal/contact record captured at checkout.
// Every field is required.
type ShippingAddress struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
}

// Checkout is a point-in-time snapshot of intended purchase: the cart lines
// and address captured at checkout start. Items are immutable once created.
// IsFinalized flips exactly once, via a conditional update in the repository,
// after which the record is inert.
type Checkout struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []LineItem      `json:"items" gorm:"serializer:json"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	PaymentMethod   string          `json:"payment_method"`
	TotalPrice      float64         `json:"total_price"`
	PaymentStatus   string          `json:"payment_status"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentDetails  map[string]any  `json:"payment_details,omitempty" gorm:"serializer:json"`
	IsFinalized     bool            `json:"is_finalized"`
	FinalizedAt     *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
