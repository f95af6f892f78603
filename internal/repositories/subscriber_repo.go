package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriberRepository defines the interface for newsletter signups.
type SubscriberRepository interface {
	Create(sub *models.Subscriber) error
	GetByEmail(email string) (*models.Subscriber, error)
}

// GORMSubscriberRepository is a GORM implementation of SubscriberRepository.
type GORMSubscriberRepository struct {
	db *gorm.DB
}

// NewGORMSubscriberRepository creates a new instance of GORMSubscriberRepository.
func NewGORMSubscriberRepository(db *gorm.DB) *GORMSubscriberRepository {
	return &GORMSubscriberRepository{
		db: db,
	}
}

// Create inserts a new subscriber.
func (r *GORMSubscriberRepository) Create(sub *models.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if err := r.db.Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("subscriber %s: %w", sub.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// GetByEmail retrieves a subscriber by email.
func (r *GORMSubscriberRepository) GetByEmail(email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	if err := r.db.First(&sub, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subscriber %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get subscriber %s: %w", email, err)
	}
	return &sub, nil
}
