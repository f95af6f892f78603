package repositories

import (
	"time"

	"storefront/internal/models"
)

// CheckoutRepository defines the interface for checkout data access.
//
// ClaimFinalization is the single-flip guard for checkout → order: it
// atomically sets is_finalized from false to true and returns ErrConflict
// when the flag was already set, ErrNotFound when the checkout is absent.
// Two racing finalize calls therefore claim at most once.
type CheckoutRepository interface {
	Create(checkout *models.Checkout) error
	GetByID(id string) (*models.Checkout, error)
	Update(checkout *models.Checkout) error
	ClaimFinalization(id string, at time.Time) error
}
