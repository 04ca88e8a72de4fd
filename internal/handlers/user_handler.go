package handlers

import (
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	service *services.UserService
	log     zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleGetUsers retrieves all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user by their ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.service.GetUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// UpdateUserRequest carries a partial profile update sent as multipart
// form or JSON.
type UpdateUserRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// HandleUpdateUser merges the supplied fields into a user. A new
// profileImage is only accepted on multipart requests.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	upload, closeUpload, err := formUpload(c, "profileImage")
	if err != nil {
		return invalidBody(c, err)
	}
	defer closeUpload()

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), services.UserUpdate{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Image:    upload,
	})
	if err != nil {
		return respondError(c, h.log, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user by their ID.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteUser(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User " + id + " deleted successfully",
	})
}
