package services_test

import (
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
)

func seedOrder(t *testing.T, repo *repositories.MockOrderRepository, id, userID, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:         id,
		CheckoutID: "chk-" + id,
		UserID:     userID,
		Items:      []models.LineItem{{ProductID: "prod-a", Quantity: 1, Price: 100}},
		TotalPrice: 100,
		Status:     status,
	}
	assert.NoError(t, repo.Create(order))
	return order
}

func TestOrderService_ListMyOrders_NewestFirst(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(repo, nil)

	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)
	time.Sleep(2 * time.Millisecond)
	seedOrder(t, repo, "o2", "user-1", models.OrderStatusProcessing)
	seedOrder(t, repo, "o3", "user-2", models.OrderStatusProcessing)

	orders, err := service.ListMyOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "o1", orders[1].ID)
}

func TestOrderService_GetOrder_Ownership(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(repo, nil)
	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)

	order, err := service.GetOrder("o1", "user-1", false)
	assert.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	// Another customer cannot read it; an admin can.
	_, err = service.GetOrder("o1", "user-2", false)
	assert.ErrorIs(t, err, services.ErrForbidden)

	order, err = service.GetOrder("o1", "admin-1", true)
	assert.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = service.GetOrder("missing", "user-1", false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_UpdateStatus_NormalizesDisplayCase(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	publisher := &capturingPublisher{}
	service := services.NewOrderService(repo, publisher)
	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)

	order, err := service.UpdateStatus("o1", "Shipped")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)
	assert.Contains(t, publisher.events, services.EventOrderStatusUpdated)
}

func TestOrderService_UpdateStatus_DeliveredFlagsDerivedBothWays(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(repo, nil)
	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)

	order, err := service.UpdateStatus("o1", "Delivered")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.True(t, order.IsDelivered)
	assert.NotNil(t, order.DeliveredAt)

	// Moving the order away from delivered clears the delivery stamps.
	order, err = service.UpdateStatus("o1", "Processing")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.False(t, order.IsDelivered)
	assert.Nil(t, order.DeliveredAt)
}

func TestOrderService_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(repo, nil)
	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)

	_, err := service.UpdateStatus("o1", "teleported")
	assert.ErrorIs(t, err, services.ErrValidation)

	// The stored status is untouched.
	order, err := service.GetOrder("o1", "user-1", false)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	repo := repositories.NewMockOrderRepository()
	service := services.NewOrderService(repo, nil)
	seedOrder(t, repo, "o1", "user-1", models.OrderStatusProcessing)

	assert.NoError(t, service.DeleteOrder("o1"))
	err := service.DeleteOrder("o1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNormalizeOrderStatus(t *testing.T) {
	for input, want := range map[string]string{
		"Delivered":  models.OrderStatusDelivered,
		"processing": models.OrderStatusProcessing,
		" SHIPPED ":  models.OrderStatusShipped,
		"Cancelled":  models.OrderStatusCancelled,
	} {
		got, err := models.NormalizeOrderStatus(input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := models.NormalizeOrderStatus("returned")
	assert.Error(t, err)
}
