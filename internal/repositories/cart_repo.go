package repositories

import "storefront/internal/models"

// CartRepository defines the interface for cart data access.
//
// Update is a compare-and-set: it only writes when the stored version still
// equals the version the cart was read at, and returns ErrConflict when a
// concurrent writer got there first. Services retry around it.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	GetByGuestID(guestID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	Update(cart *models.Cart) error
	Delete(id string) error
	DeleteByUserID(userID string) error
}
