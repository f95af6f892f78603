package repositories

import (
	"fmt"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// It honors the same version compare-and-set contract as the GORM
// implementation, so service-level retry behavior is exercised in tests.
type MockCartRepository struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// GetByUserID returns the cart owned by a user.
func (r *MockCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.UserID != "" && cart.UserID == userID {
			c := cloneCart(cart)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
}

// GetByGuestID returns the cart owned by a guest identity.
func (r *MockCartRepository) GetByGuestID(guestID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.GuestID != "" && cart.GuestID == guestID {
			c := cloneCart(cart)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("cart for guest %s: %w", guestID, ErrNotFound)
}

// Create adds a new cart at version 1, enforcing one cart per owner.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.carts {
		if cart.UserID != "" && existing.UserID == cart.UserID {
			return fmt.Errorf("cart for user %s exists: %w", cart.UserID, ErrConflict)
		}
		if cart.GuestID != "" && existing.GuestID == cart.GuestID {
			return fmt.Errorf("cart for guest %s exists: %w", cart.GuestID, ErrConflict)
		}
	}

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	cart.Version = 1
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = time.Now()
	r.carts[cart.ID] = cloneCart(*cart)
	return nil
}

// Update applies the versioned compare-and-set.
func (r *MockCartRepository) Update(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[cart.ID]
	if !ok || stored.Version != cart.Version {
		return fmt.Errorf("cart %s version %d: %w", cart.ID, cart.Version, ErrConflict)
	}

	stored.Items = append([]models.LineItem(nil), cart.Items...)
	stored.TotalPrice = cart.TotalPrice
	stored.Version++
	stored.UpdatedAt = time.Now()
	r.carts[cart.ID] = stored
	cart.Version = stored.Version
	return nil
}

// Delete removes a cart by ID.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return fmt.Errorf("cart %s: %w", id, ErrNotFound)
	}
	delete(r.carts, id)
	return nil
}

// DeleteByUserID removes every cart owned by a user.
func (r *MockCartRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, cart := range r.carts {
		if cart.UserID == userID {
			delete(r.carts, id)
		}
	}
	return nil
}

func cloneCart(c models.Cart) models.Cart {
	c.Items = append([]models.LineItem(nil), c.Items...)
	return c
}
