package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders, customer-facing reads and
// the admin mutation surface.
type OrderHandler struct {
	orderService *services.OrderService
	validate     *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validate:     validator.New(),
	}
}

// RegisterCustomerRoutes registers the customer order routes on an
// auth-required router.
func (h *OrderHandler) RegisterCustomerRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/my-orders", h.HandleListMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrder)
}

// RegisterAdminRoutes registers the admin order routes on an admin router.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListAllOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleListMyOrders returns the caller's orders, newest first.
func (h *OrderHandler) HandleListMyOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListMyOrders(currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders retrieved",
		"orders":  orders,
	})
}

// HandleGetOrder returns one order. Customers only see their own; admins
// see any.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orderService.GetOrder(c.Params("id"), currentUserID(c), isAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order retrieved",
		"order":   order,
	})
}

// HandleListAllOrders returns every order, newest first.
func (h *OrderHandler) HandleListAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.ListAllOrders()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Orders retrieved",
		"orders":  orders,
	})
}

// UpdateStatusRequest carries the new order status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus moves an order through its lifecycle. Unrecognized
// status values are rejected, never persisted.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	order, err := h.orderService.UpdateStatus(c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order status updated",
		"order":   order,
	})
}

// HandleDeleteOrder removes an order.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.orderService.DeleteOrder(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order deleted successfully",
	})
}
