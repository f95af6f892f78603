package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves the single cart owned by a user.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetByGuestID retrieves the single cart owned by a guest identity.
func (r *GORMCartRepository) GetByGuestID(guestID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.First(&cart, "guest_id = ?", guestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for guest %s: %w", guestID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for guest %s: %w", guestID, err)
	}
	return &cart, nil
}

// Create inserts a new cart at version 1. The partial unique indexes on
// user_id and guest_id enforce at most one cart per owner.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	cart.Version = 1
	if err := r.db.Create(cart).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("cart for owner already exists: %w", ErrConflict)
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// Update writes items and total guarded by the version the caller read the
// cart at. A zero-row update means either the cart vanished or another
// writer bumped the version; both surface as ErrConflict and the caller
// re-reads to distinguish.
func (r *GORMCartRepository) Update(cart *models.Cart) error {
	readVersion := cart.Version
	// Struct update with an explicit Select so the JSON serializer runs for
	// items and zero totals still get written.
	res := r.db.Model(&models.Cart{}).
		Where("id = ? AND version = ?", cart.ID, readVersion).
		Select("items", "total_price", "version").
		Updates(models.Cart{
			Items:      cart.Items,
			TotalPrice: cart.TotalPrice,
			Version:    readVersion + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update cart %s: %w", cart.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart %s version %d: %w", cart.ID, readVersion, ErrConflict)
	}
	cart.Version = readVersion + 1
	return nil
}

// Delete removes a cart by ID.
func (r *GORMCartRepository) Delete(id string) error {
	res := r.db.Delete(&models.Cart{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByUserID removes every cart owned by a user. Checkout finalization
// calls this; deleting zero rows is fine there, so absence is not an error.
func (r *GORMCartRepository) DeleteByUserID(userID string) error {
	if err := r.db.Delete(&models.Cart{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete carts for user %s: %w", userID, err)
	}
	return nil
}
