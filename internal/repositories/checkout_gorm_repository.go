package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCheckoutRepository is a GORM implementation of CheckoutRepository.
type GORMCheckoutRepository struct {
	db *gorm.DB
}

// NewGORMCheckoutRepository creates a new instance of GORMCheckoutRepository.
func NewGORMCheckoutRepository(db *gorm.DB) *GORMCheckoutRepository {
	return &GORMCheckoutRepository{
		db: db,
	}
}

// Create inserts a new checkout snapshot.
func (r *GORMCheckoutRepository) Create(checkout *models.Checkout) error {
	if checkout.ID == "" {
		checkout.ID = uuid.New().String()
	}
	if err := r.db.Create(checkout).Error; err != nil {
		return fmt.Errorf("failed to create checkout: %w", err)
	}
	return nil
}

// GetByID retrieves a checkout by its ID.
func (r *GORMCheckoutRepository) GetByID(id string) (*models.Checkout, error) {
	var checkout models.Checkout
	if err := r.db.First(&checkout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("checkout with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get checkout by ID %s: %w", id, err)
	}
	return &checkout, nil
}

// Update persists payment-state mutations on a checkout.
func (r *GORMCheckoutRepository) Update(checkout *models.Checkout) error {
	res := r.db.Save(checkout)
	if res.Error != nil {
		return fmt.Errorf("failed to update checkout %s: %w", checkout.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("checkout with ID %s: %w", checkout.ID, ErrNotFound)
	}
	return nil
}

// ClaimFinalization flips is_finalized false → true in one conditional
// update. The WHERE clause is the lock: of two racing callers exactly one
// affects a row, the other re-reads and learns whether the checkout is
// missing or already finalized.
func (r *GORMCheckoutRepository) ClaimFinalization(id string, at time.Time) error {
	res := r.db.Model(&models.Checkout{}).
		Where("id = ? AND is_finalized = ?", id, false).
		Updates(map[string]any{
			"is_finalized": true,
			"finalized_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to claim finalization of checkout %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var checkout models.Checkout
		if err := r.db.First(&checkout, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("checkout with ID %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get checkout by ID %s: %w", id, err)
		}
		return fmt.Errorf("checkout %s already finalized: %w", id, ErrConflict)
	}
	return nil
}
