package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CheckoutHandler handles HTTP requests for checkout sessions.
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	validate        *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers checkout routes on an auth-required router.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCreate)
	checkoutRoutes.Get("/:id", h.HandleGet)
	checkoutRoutes.Put("/:id/pay", h.HandlePay)
	checkoutRoutes.Post("/:id/payment-intent", h.HandleCreatePaymentIntent)
	checkoutRoutes.Post("/:id/finalize", h.HandleFinalize)
}

// CheckoutItemRequest is one line of a checkout creation request. Prices
// are not accepted from the client; the service prices lines from the
// catalog.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// CreateCheckoutRequest is the body for opening a checkout session.
type CreateCheckoutRequest struct {
	Items           []CheckoutItemRequest  `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=card cod"`
}

// HandleCreate opens a checkout session from the submitted lines and
// shipping address.
func (h *CheckoutHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	items := make([]models.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	checkout, err := h.checkoutService.Create(currentUserID(c), items, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Checkout created",
		"checkout": checkout,
	})
}

// HandleGet returns a checkout session the requester owns.
func (h *CheckoutHandler) HandleGet(c *fiber.Ctx) error {
	checkout, err := h.checkoutService.GetByID(c.Params("id"), currentUserID(c), isAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Checkout retrieved",
		"checkout": checkout,
	})
}

// PayRequest records a payment confirmation from the gateway.
type PayRequest struct {
	PaymentStatus  string         `json:"payment_status" validate:"required"`
	PaymentDetails map[string]any `json:"payment_details"`
}

// HandlePay marks a checkout paid. Only the literal status "paid" is an
// accepted transition input.
func (h *CheckoutHandler) HandlePay(c *fiber.Ctx) error {
	var req PayRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	checkout, err := h.checkoutService.UpdatePaymentStatus(c.Params("id"), currentUserID(c), isAdmin(c), req.PaymentStatus, req.PaymentDetails)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Checkout marked as paid",
		"checkout": checkout,
	})
}

// HandleCreatePaymentIntent obtains a client-side payment handle for the
// checkout's total from the payment gateway.
func (h *CheckoutHandler) HandleCreatePaymentIntent(c *fiber.Ctx) error {
	intent, err := h.checkoutService.CreatePaymentIntent(c.Params("id"), currentUserID(c), isAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Payment intent created",
		"intent":  intent,
	})
}

// HandleFinalize converts a checkout into an order. Exactly one of two
// racing finalize calls succeeds; the loser gets a 400.
func (h *CheckoutHandler) HandleFinalize(c *fiber.Ctx) error {
	order, err := h.checkoutService.Finalize(c.Params("id"), currentUserID(c), isAdmin(c))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Checkout finalized",
		"order":   order,
	})
}
