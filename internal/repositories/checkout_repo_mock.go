package repositories

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCheckoutRepository is an in-memory implementation of CheckoutRepository.
// ClaimFinalization performs the flip under the same lock that guards reads,
// so it is atomic the way the database conditional update is.
type MockCheckoutRepository struct {
	checkouts map[string]models.Checkout
	mu        sync.RWMutex
}

// NewMockCheckoutRepository creates a new instance of MockCheckoutRepository.
func NewMockCheckoutRepository() *MockCheckoutRepository {
	return &MockCheckoutRepository{
		checkouts: make(map[string]models.Checkout),
	}
}

// Create adds a new checkout.
func (r *MockCheckoutRepository) Create(checkout *models.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if checkout.ID == "" {
		checkout.ID = uuid.New().String()
	}
	checkout.CreatedAt = time.Now()
	checkout.UpdatedAt = time.Now()
	r.checkouts[checkout.ID] = *checkout
	return nil
}

// GetByID returns a checkout by its ID.
func (r *MockCheckoutRepository) GetByID(id string) (*models.Checkout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checkout, ok := r.checkouts[id]
	if !ok {
		return nil, fmt.Errorf("checkout with ID %s: %w", id, ErrNotFound)
	}
	return &checkout, nil
}

// Update replaces the stored checkout.
func (r *MockCheckoutRepository) Update(checkout *models.Checkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.checkouts[checkout.ID]; !ok {
		return fmt.Errorf("checkout with ID %s: %w", checkout.ID, ErrNotFound)
	}
	checkout.UpdatedAt = time.Now()
	r.checkouts[checkout.ID] = *checkout
	return nil
}

// ClaimFinalization flips is_finalized exactly once.
func (r *MockCheckoutRepository) ClaimFinalization(id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	checkout, ok := r.checkouts[id]
	if !ok {
		return fmt.Errorf("checkout with ID %s: %w", id, ErrNotFound)
	}
	if checkout.IsFinalized {
		return fmt.Errorf("checkout %s already finalized: %w", id, ErrConflict)
	}
	checkout.IsFinalized = true
	checkout.FinalizedAt = &at
	checkout.UpdatedAt = time.Now()
	r.checkouts[id] = checkout
	return nil
}
