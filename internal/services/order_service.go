package services

import (
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderService serves customer order reads and admin order mutations.
type OrderService struct {
	orderRepo repositories.OrderRepository
	events    EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
	}
}

// ListMyOrders returns the caller's orders, newest first.
func (s *OrderService) ListMyOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrder returns a single order. Customers only see their own orders;
// admins see any.
func (s *OrderService) GetOrder(id, requesterID string, isAdmin bool) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != requesterID {
		return nil, fmt.Errorf("order %s belongs to another user: %w", id, ErrForbidden)
	}
	return order, nil
}

// ListAllOrders returns every order, newest first. Admin only.
func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// UpdateStatus moves an order to a new lifecycle status. Input is
// normalized case-insensitively and must land in the closed status set;
// unrecognized values are rejected, never persisted. The delivered flags
// are derived from the status in both directions: entering "delivered"
// stamps them, leaving it clears them.
func (s *OrderService) UpdateStatus(id, rawStatus string) (*models.Order, error) {
	status, err := models.NormalizeOrderStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	order.Status = status
	if status == models.OrderStatusDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
	} else {
		order.IsDelivered = false
		order.DeliveredAt = nil
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	if s.events != nil {
		payload := map[string]any{
			"order_id": order.ID,
			"user_id":  order.UserID,
			"status":   order.Status,
		}
		if err := s.events.PublishEvent(EventOrderStatusUpdated, payload); err != nil {
			log.Printf("Warning: failed to publish %s for order %s: %v", EventOrderStatusUpdated, order.ID, err)
		}
	}

	return order, nil
}

// DeleteOrder removes an order unconditionally. Admin only.
func (s *OrderService) DeleteOrder(id string) error {
	return s.orderRepo.Delete(id)
}
