package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for carts. The cart routes are public:
// authenticated users are recognized through optional auth, guests through
// a server-issued signed guest token in the X-Guest-Token header.
type CartHandler struct {
	cartService *services.CartService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService *services.CartService, authService *services.AuthService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers cart routes. The router must carry OptionalAuth.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/guest-token", h.HandleIssueGuestToken)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/", h.HandleUpdateItem)
	cartRoutes.Delete("/", h.HandleRemoveItem)
}

// RegisterMergeRoute registers the merge endpoint on an auth-required router.
func (h *CartHandler) RegisterMergeRoute(router fiber.Router) {
	router.Post("/cart/merge", h.HandleMerge)
}

// HandleIssueGuestToken mints a signed guest identity for anonymous carts.
// Clients present it in the X-Guest-Token header on subsequent cart calls;
// a client-invented guest ID is never accepted.
func (h *CartHandler) HandleIssueGuestToken(c *fiber.Ctx) error {
	token, guestID, err := h.authService.IssueGuestToken()
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     "Guest token issued",
		"guest_token": token,
		"guest_id":    guestID,
	})
}

// resolveOwner derives the cart owner for this request: the authenticated
// user when a bearer token was presented, otherwise the guest identity
// inside a valid X-Guest-Token header.
func (h *CartHandler) resolveOwner(c *fiber.Ctx) (services.CartOwner, error) {
	if userID := currentUserID(c); userID != "" {
		return services.CartOwner{UserID: userID}, nil
	}
	if guestToken := c.Get("X-Guest-Token"); guestToken != "" {
		guestID, err := h.authService.ValidateGuestToken(guestToken)
		if err != nil {
			return services.CartOwner{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid guest token")
		}
		return services.CartOwner{GuestID: guestID}, nil
	}
	return services.CartOwner{}, nil
}

// requireOwner is resolveOwner for mutating endpoints, where some identity
// is mandatory.
func (h *CartHandler) requireOwner(c *fiber.Ctx) (services.CartOwner, error) {
	owner, err := h.resolveOwner(c)
	if err != nil {
		return owner, err
	}
	if owner.IsZero() {
		return owner, fiber.NewError(fiber.StatusUnauthorized, "A bearer token or guest token is required")
	}
	return owner, nil
}

// CartItemRequest is the body for cart add/update/remove calls.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// HandleGetCart returns the owner's cart. A missing cart renders as an
// empty cart shape, never as an error.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	owner, err := h.resolveOwner(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	cart, err := h.cartService.GetCart(owner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart retrieved",
		"cart":    cart,
	})
}

// HandleAddItem adds a line (or quantity on an existing line) to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	owner, err := h.requireOwner(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	cart, err := h.cartService.AddItem(owner, req.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Item added to cart",
		"cart":    cart,
	})
}

// HandleUpdateItem sets a line's quantity; zero or less removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	owner, err := h.requireOwner(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	cart, err := h.cartService.UpdateItem(owner, req.ProductID, req.Quantity, req.Size, req.Color)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart updated",
		"cart":    cart,
	})
}

// HandleRemoveItem deletes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	owner, err := h.requireOwner(c)
	if err != nil {
		return respondFiberError(c, err)
	}

	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	cart, err := h.cartService.RemoveItem(owner, req.ProductID, req.Size, req.Color)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

// MergeRequest carries the guest identity being folded into the
// authenticated user's cart.
type MergeRequest struct {
	GuestToken string `json:"guest_token"`
}

// HandleMerge merges the guest cart into the logged-in user's cart. The
// guest token may come from the body or the X-Guest-Token header.
func (h *CartHandler) HandleMerge(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return failBody(c, err)
	}
	guestToken := req.GuestToken
	if guestToken == "" {
		guestToken = c.Get("X-Guest-Token")
	}
	if guestToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A guest token is required to merge",
		})
	}

	guestID, err := h.authService.ValidateGuestToken(guestToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Invalid guest token",
		})
	}

	cart, err := h.cartService.Merge(guestID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Cart merged",
		"cart":    cart,
	})
}

// respondFiberError writes a fiber.Error produced during owner resolution.
func respondFiberError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"message": fe.Message,
		})
	}
	return fail(c, err)
}
