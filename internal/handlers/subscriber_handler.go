package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SubscriberHandler handles newsletter signups.
type SubscriberHandler struct {
	subscriberService *services.SubscriberService
	validate          *validator.Validate
}

// NewSubscriberHandler creates a new SubscriberHandler.
func NewSubscriberHandler(subscriberService *services.SubscriberService) *SubscriberHandler {
	return &SubscriberHandler{
		subscriberService: subscriberService,
		validate:          validator.New(),
	}
}

// RegisterRoutes registers the subscription route.
func (h *SubscriberHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/subscribe", h.HandleSubscribe)
}

// SubscribeRequest is the newsletter signup body.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleSubscribe records a newsletter signup.
func (h *SubscriberHandler) HandleSubscribe(c *fiber.Ctx) error {
	var req SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	sub, err := h.subscriberService.Subscribe(req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"message":    "Subscribed successfully",
		"subscriber": sub,
	})
}
