package handlers

import (
	"fmt"

	"shopapi/internal/middleware"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// OrderHandler handles HTTP requests for orders. Every route expects the
// caller identity set by middleware.AuthRequired.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes behind authRequired.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	orderRoutes := router.Group("/orders", authRequired)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// CreateOrderRequest represents the request body for a new order.
type CreateOrderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateOrderRequest represents a partial order update.
type UpdateOrderRequest struct {
	Quantity *int    `json:"quantity" validate:"omitempty,min=1"`
	Status   *string `json:"status"`
}

// HandleGetOrders lists the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	caller, ok := middleware.Identity(c)
	if !ok {
		return respondError(c, h.log, "Authentication required", models.ErrUnauthenticated)
	}

	orders, err := h.service.GetOrders(c.UserContext(), caller)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	caller, ok := middleware.Identity(c)
	if !ok {
		return respondError(c, h.log, "Authentication required", models.ErrUnauthenticated)
	}

	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(c.UserContext(), caller, orderID)
	if err != nil {
		return respondError(c, h.log, fmt.Sprintf("Could not retrieve order %s", orderID), err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order owned by the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	caller, ok := middleware.Identity(c)
	if !ok {
		return respondError(c, h.log, "Authentication required", models.ErrUnauthenticated)
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	createdOrder, err := h.service.CreateOrder(c.UserContext(), caller, services.OrderInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return respondError(c, h.log, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(createdOrder)
}

// HandleUpdateOrder changes the quantity and/or status of an order.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	caller, ok := middleware.Identity(c)
	if !ok {
		return respondError(c, h.log, "Authentication required", models.ErrUnauthenticated)
	}

	var req UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	update := services.OrderUpdate{Quantity: req.Quantity}
	if req.Status != nil {
		status := models.OrderStatus(*req.Status)
		update.Status = &status
	}

	orderID := c.Params("id")
	order, err := h.service.UpdateOrder(c.UserContext(), caller, orderID, update)
	if err != nil {
		return respondError(c, h.log, fmt.Sprintf("Could not update order %s", orderID), err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes one of the caller's orders.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	caller, ok := middleware.Identity(c)
	if !ok {
		return respondError(c, h.log, "Authentication required", models.ErrUnauthenticated)
	}

	orderID := c.Params("id")
	if err := h.service.DeleteOrder(c.UserContext(), caller, orderID); err != nil {
		return respondError(c, h.log, fmt.Sprintf("Could not delete order %s", orderID), err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s deleted successfully", orderID),
	})
}
