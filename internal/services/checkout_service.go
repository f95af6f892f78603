package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/payments"
)

// CheckoutService runs the checkout session state machine:
//
//	created(pending, unpaid) → paid → finalized
//
// with the direct created → finalized path for cash on delivery.
// Finalization is claimed through an atomic conditional update in the
// repository, so racing finalize calls produce exactly one order.
type CheckoutService struct {
	checkoutRepo repositories.CheckoutRepository
	orderRepo    repositories.OrderRepository
	cartRepo     repositories.CartRepository
	productRepo  repositories.ProductRepository
	gateway      payments.Gateway
	events       EventPublisher
	currency     string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	checkoutRepo repositories.CheckoutRepository,
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	gateway payments.Gateway,
	events EventPublisher,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		gateway:      gateway,
		events:       events,
		currency:     currency,
	}
}

// Create opens a checkout session from the given lines and shipping address.
// The total is recomputed here from authoritative catalog prices; whatever
// total or line prices the client supplied are ignored. Lines referencing a
// missing product fail the whole checkout.
func (s *CheckoutService) Create(userID string, items []models.LineItem, address models.ShippingAddress, paymentMethod string) (*models.Checkout, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("checkout requires at least one item: %w", ErrValidation)
	}
	if paymentMethod != models.PaymentMethodCard && paymentMethod != models.PaymentMethodCOD {
		return nil, fmt.Errorf("unknown payment method %q: %w", paymentMethod, ErrValidation)
	}

	priced := make([]models.LineItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1 for product %s: %w", item.ProductID, ErrValidation)
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		item.Name = product.Name
		item.Image = product.FirstImage()
		item.Price = product.EffectivePrice()
		priced = append(priced, item)
	}

	checkout := &models.Checkout{
		UserID:          userID,
		Items:           priced,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		TotalPrice:      models.SumLineItems(priced),
		PaymentStatus:   models.PaymentStatusPending,
		IsPaid:          false,
	}
	if err := s.checkoutRepo.Create(checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// GetByID retrieves a checkout, enforcing ownership unless the requester
// is an admin.
func (s *CheckoutService) GetByID(id, requesterID string, isAdmin bool) (*models.Checkout, error) {
	checkout, err := s.checkoutRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && checkout.UserID != requesterID {
		return nil, fmt.Errorf("checkout %s belongs to another user: %w", id, ErrForbidden)
	}
	return checkout, nil
}

// UpdatePaymentStatus records a payment confirmation. Only the literal
// status "paid" is a legal transition input; anything else is rejected
// rather than silently ignored. PaymentDetails carries the gateway's opaque
// confirmation payload.
func (s *CheckoutService) UpdatePaymentStatus(id, requesterID string, isAdmin bool, status string, details map[string]any) (*models.Checkout, error) {
	checkout, err := s.GetByID(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	if checkout.IsFinalized {
		return nil, fmt.Errorf("checkout %s is finalized: %w", id, ErrInvalidState)
	}
	if status != models.PaymentStatusPaid {
		return nil, fmt.Errorf("payment status %q is not an accepted transition: %w", status, ErrInvalidState)
	}

	now := time.Now()
	checkout.PaymentStatus = models.PaymentStatusPaid
	checkout.IsPaid = true
	checkout.PaidAt = &now
	checkout.PaymentDetails = details
	if err := s.checkoutRepo.Update(checkout); err != nil {
		return nil, err
	}
	return checkout, nil
}

// CreatePaymentIntent asks the payment gateway for a client-side handle
// covering the checkout total, converted to the gateway's minor-unit
// currency representation.
func (s *CheckoutService) CreatePaymentIntent(id, requesterID string, isAdmin bool) (*payments.Intent, error) {
	checkout, err := s.GetByID(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	intent, err := s.gateway.CreateIntent(payments.ToMinorUnits(checkout.TotalPrice), s.currency)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent for checkout %s: %w", id, err)
	}
	return intent, nil
}

// Finalize converts a checkout into its order. The checkout is first
// claimed with a conditional flip of is_finalized; the caller that loses
// the claim gets ErrAlreadyFinalized and no second order is created. A COD
// checkout finalizes without a prior paid transition: the order is marked
// paid while its payment status stays pending until the courier settles.
// All carts of the checkout's user are cleared as part of finalization.
func (s *CheckoutService) Finalize(id, requesterID string, isAdmin bool) (*models.Order, error) {
	checkout, err := s.GetByID(id, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.checkoutRepo.ClaimFinalization(id, now); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("checkout %s: %w", id, ErrAlreadyFinalized)
		}
		return nil, err
	}

	isPaid := checkout.IsPaid || checkout.PaymentMethod == models.PaymentMethodCOD
	order := &models.Order{
		CheckoutID:      checkout.ID,
		UserID:          checkout.UserID,
		Items:           checkout.Items,
		ShippingAddress: checkout.ShippingAddress,
		PaymentMethod:   checkout.PaymentMethod,
		PaymentStatus:   checkout.PaymentStatus,
		TotalPrice:      checkout.TotalPrice,
		IsPaid:          isPaid,
		PaidAt:          checkout.PaidAt,
		Status:          models.OrderStatusProcessing,
	}
	if err := s.orderRepo.Create(order); err != nil {
		// The unique index on checkout_id backstops the claim; hitting it
		// means another caller already produced the order.
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("checkout %s: %w", id, ErrAlreadyFinalized)
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteByUserID(checkout.UserID); err != nil {
		log.Printf("Warning: failed to clear carts for user %s after finalizing checkout %s: %v", checkout.UserID, id, err)
	}

	if s.events != nil {
		payload := map[string]any{
			"order_id":    order.ID,
			"checkout_id": order.CheckoutID,
			"user_id":     order.UserID,
			"status":      order.Status,
			"total":       order.TotalPrice,
		}
		if err := s.events.PublishEvent(EventOrderCreated, payload); err != nil {
			log.Printf("Warning: failed to publish %s for order %s: %v", EventOrderCreated, order.ID, err)
		}
	}

	return order, nil
}
