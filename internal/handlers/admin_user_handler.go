package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminUserHandler handles the admin account management surface.
type AdminUserHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(userService *services.UserService) *AdminUserHandler {
	return &AdminUserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user management routes on an admin router.
func (h *AdminUserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:id", h.HandleGetUser)
	userRoutes.Patch("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleListUsers returns every account, without password hashes.
func (h *AdminUserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers()
	if err != nil {
		return fail(c, err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Users retrieved",
		"users":   users,
	})
}

// HandleGetUser returns one account.
func (h *AdminUserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User retrieved",
		"user":    user,
	})
}

// HandleCreateUser creates an account with an admin-chosen role.
func (h *AdminUserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(user); err != nil {
		return failValidation(c, err)
	}

	if err := h.userService.CreateUser(&user); err != nil {
		return fail(c, err)
	}
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created",
		"user":    user,
	})
}

// HandleUpdateUser applies a partial edit to an account.
func (h *AdminUserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var update services.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return failBody(c, err)
	}
	if err := h.validate.Struct(update); err != nil {
		return failValidation(c, err)
	}

	user, err := h.userService.UpdateUser(c.Params("id"), update)
	if err != nil {
		return fail(c, err)
	}
	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User updated",
		"user":    user,
	})
}

// HandleDeleteUser removes an account and its carts.
func (h *AdminUserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
