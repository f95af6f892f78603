package services

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// cartUpdateRetries bounds how often a versioned cart write is retried
// after losing to a concurrent writer.
const cartUpdateRetries = 3

// CartOwner identifies whose cart a request operates on: an authenticated
// user when UserID is set, otherwise an anonymous guest. The middleware
// guarantees at most one is populated per request.
type CartOwner struct {
	UserID  string
	GuestID string
}

// IsZero reports whether no identity was resolved at all.
func (o CartOwner) IsZero() bool {
	return o.UserID == "" && o.GuestID == ""
}

// CartService resolves and mutates carts. Every mutation is a
// read-modify-write guarded by the cart's version; a lost write is re-read
// and re-applied, so two tabs incrementing the same line never drop an
// update.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// resolve finds the owner's cart. User identity wins over guest identity.
func (s *CartService) resolve(owner CartOwner) (*models.Cart, error) {
	if owner.UserID != "" {
		return s.cartRepo.GetByUserID(owner.UserID)
	}
	if owner.GuestID != "" {
		return s.cartRepo.GetByGuestID(owner.GuestID)
	}
	return nil, fmt.Errorf("cart owner: %w", repositories.ErrNotFound)
}

// GetCart returns the owner's cart. A missing cart is not an error: the
// caller gets an empty cart shape so clients render a consistent structure.
func (s *CartService) GetCart(owner CartOwner) (*models.Cart, error) {
	cart, err := s.resolve(owner)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.Cart{
				UserID:  owner.UserID,
				GuestID: owner.GuestID,
				Items:   []models.LineItem{},
			}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a (product, size, color) line to the owner's
// cart, creating the cart lazily on first add. An existing line's quantity
// is incremented; a new line snapshots the product's current name, price
// and first image.
func (s *CartService) AddItem(owner CartOwner, productID string, quantity int, size, color string) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		cart, err := s.resolve(owner)
		if err != nil {
			if !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
			cart = &models.Cart{
				UserID:  owner.UserID,
				GuestID: owner.GuestID,
				Items:   []models.LineItem{snapshotLine(product, quantity, size, color)},
			}
			cart.RecomputeTotal()
			if createErr := s.cartRepo.Create(cart); createErr != nil {
				// Lost the creation race to a concurrent first add; re-read
				// and merge into the winner's cart.
				if errors.Is(createErr, repositories.ErrConflict) && attempt < cartUpdateRetries {
					continue
				}
				return nil, createErr
			}
			return cart, nil
		}

		if i := cart.FindItem(productID, size, color); i >= 0 {
			cart.Items[i].Quantity += quantity
		} else {
			cart.Items = append(cart.Items, snapshotLine(product, quantity, size, color))
		}
		cart.RecomputeTotal()

		if updateErr := s.cartRepo.Update(cart); updateErr != nil {
			if errors.Is(updateErr, repositories.ErrConflict) && attempt < cartUpdateRetries {
				continue
			}
			return nil, updateErr
		}
		return cart, nil
	}
}

// UpdateItem sets the quantity of an existing line. A quantity of zero or
// less removes the line; the cart never stores a non-positive quantity.
func (s *CartService) UpdateItem(owner CartOwner, productID string, quantity int, size, color string) (*models.Cart, error) {
	for attempt := 0; ; attempt++ {
		cart, err := s.resolve(owner)
		if err != nil {
			return nil, err
		}

		i := cart.FindItem(productID, size, color)
		if i < 0 {
			return nil, fmt.Errorf("line item %s/%s/%s: %w", productID, size, color, repositories.ErrNotFound)
		}

		if quantity <= 0 {
			cart.RemoveItemAt(i)
		} else {
			cart.Items[i].Quantity = quantity
		}
		cart.RecomputeTotal()

		if updateErr := s.cartRepo.Update(cart); updateErr != nil {
			if errors.Is(updateErr, repositories.ErrConflict) && attempt < cartUpdateRetries {
				continue
			}
			return nil, updateErr
		}
		return cart, nil
	}
}

// RemoveItem deletes a line from the owner's cart.
func (s *CartService) RemoveItem(owner CartOwner, productID, size, color string) (*models.Cart, error) {
	for attempt := 0; ; attempt++ {
		cart, err := s.resolve(owner)
		if err != nil {
			return nil, err
		}

		i := cart.FindItem(productID, size, color)
		if i < 0 {
			return nil, fmt.Errorf("line item %s/%s/%s: %w", productID, size, color, repositories.ErrNotFound)
		}

		cart.RemoveItemAt(i)
		cart.RecomputeTotal()

		if updateErr := s.cartRepo.Update(cart); updateErr != nil {
			if errors.Is(updateErr, repositories.ErrConflict) && attempt < cartUpdateRetries {
				continue
			}
			return nil, updateErr
		}
		return cart, nil
	}
}

// Merge folds a guest cart into the authenticated user's cart on login.
// Quantities on matching (product, size, color) lines are summed; other
// guest lines are appended with their snapshot refreshed against the
// catalog, so a price change between guest add and login is picked up.
// The guest cart record is deleted once merged. If the guest cart no longer
// exists, the user's existing cart is returned unchanged; if neither cart
// exists the merge fails with not-found.
func (s *CartService) Merge(guestID, userID string) (*models.Cart, error) {
	guestCart, err := s.cartRepo.GetByGuestID(guestID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		userCart, userErr := s.cartRepo.GetByUserID(userID)
		if userErr != nil {
			return nil, fmt.Errorf("no cart to merge for guest %s or user %s: %w", guestID, userID, repositories.ErrNotFound)
		}
		return userCart, nil
	}

	if len(guestCart.Items) == 0 {
		return nil, fmt.Errorf("guest %s: %w", guestID, ErrEmptyGuestCart)
	}

	userCart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		// No user cart yet: promote the guest lines into a fresh user cart.
		userCart = &models.Cart{
			UserID: userID,
			Items:  s.refreshLines(guestCart.Items),
		}
		userCart.RecomputeTotal()
		if createErr := s.cartRepo.Create(userCart); createErr != nil {
			return nil, createErr
		}
	} else {
		for _, line := range guestCart.Items {
			if i := userCart.FindItem(line.ProductID, line.Size, line.Color); i >= 0 {
				userCart.Items[i].Quantity += line.Quantity
			} else {
				userCart.Items = append(userCart.Items, s.refreshLine(line))
			}
		}
		userCart.RecomputeTotal()
		if updateErr := s.cartRepo.Update(userCart); updateErr != nil {
			return nil, updateErr
		}
	}

	if deleteErr := s.cartRepo.Delete(guestCart.ID); deleteErr != nil {
		return nil, fmt.Errorf("merged but failed to remove guest cart %s: %w", guestCart.ID, deleteErr)
	}
	return userCart, nil
}

// refreshLine re-snapshots a line's name, image and price against the
// current catalog. A product that has since been removed keeps its old
// snapshot so the line stays purchasable as priced.
func (s *CartService) refreshLine(line models.LineItem) models.LineItem {
	product, err := s.productRepo.GetByID(line.ProductID)
	if err != nil {
		return line
	}
	line.Name = product.Name
	line.Image = product.FirstImage()
	line.Price = product.EffectivePrice()
	return line
}

func (s *CartService) refreshLines(lines []models.LineItem) []models.LineItem {
	refreshed := make([]models.LineItem, 0, len(lines))
	for _, line := range lines {
		refreshed = append(refreshed, s.refreshLine(line))
	}
	return refreshed
}

func snapshotLine(product *models.Product, quantity int, size, color string) models.LineItem {
	return models.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.FirstImage(),
		Price:     product.EffectivePrice(),
		Size:      size,
		Color:     color,
		Quantity:  quantity,
	}
}
