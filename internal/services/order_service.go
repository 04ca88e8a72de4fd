package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopapi/internal/auth"
	"shopapi/internal/models"
	"shopapi/internal/repositories"

	"github.com/rs/zerolog"
)

// Order event types.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// EventPublisher publishes order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, body []byte) error
}

// OrderEvent is the message body published for every order change.
type OrderEvent struct {
	Event      string             `json:"event"`
	OrderID    string             `json:"order_id"`
	UserID     string             `json:"user_id"`
	ProductID  string             `json:"product_id,omitempty"`
	Quantity   int                `json:"quantity,omitempty"`
	Status     models.OrderStatus `json:"status,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// OrderInput carries the fields of a new order.
type OrderInput struct {
	ProductID string
	Quantity  int
}

// OrderUpdate carries a partial order update; nil fields are left unchanged.
type OrderUpdate struct {
	Quantity *int
	Status   *models.OrderStatus
}

// OrderService handles business logic related to orders. Every operation
// is scoped to the calling user: orders owned by someone else behave as if
// they did not exist.
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher EventPublisher
	log       zerolog.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, publisher EventPublisher, log zerolog.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		log:       log,
	}
}

// GetOrders returns the caller's orders with products expanded.
func (s *OrderService) GetOrders(ctx context.Context, caller auth.Identity) ([]models.Order, error) {
	return s.orderRepo.GetByUser(ctx, caller.UserID)
}

// GetOrderByID returns one of the caller's orders.
func (s *OrderService) GetOrderByID(ctx context.Context, caller auth.Identity, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.UserID {
		return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrNotFound)
	}
	return order, nil
}

// CreateOrder stores a pending order owned by the caller. The product is
// not required to exist.
func (s *OrderService) CreateOrder(ctx context.Context, caller auth.Identity, in OrderInput) (*models.Order, error) {
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id is required", models.ErrValidation)
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", models.ErrValidation, in.Quantity)
	}

	order := &models.Order{
		ProductID: in.ProductID,
		UserID:    caller.UserID,
		Quantity:  in.Quantity,
		Status:    models.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publish(ctx, EventOrderCreated, order)
	return order, nil
}

// UpdateOrder changes the quantity and/or status of one of the caller's
// orders.
func (s *OrderService) UpdateOrder(ctx context.Context, caller auth.Identity, id string, in OrderUpdate) (*models.Order, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid order status: %s", models.ErrValidation, *in.Status)
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1, got %d", models.ErrValidation, *in.Quantity)
	}

	order, err := s.GetOrderByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Quantity != nil {
		order.Quantity = *in.Quantity
	}
	if in.Status != nil {
		order.Status = *in.Status
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order %s: %w", id, err)
	}

	s.publish(ctx, EventOrderUpdated, order)
	return order, nil
}

// DeleteOrder removes one of the caller's orders.
func (s *OrderService) DeleteOrder(ctx context.Context, caller auth.Identity, id string) error {
	order, err := s.GetOrderByID(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventOrderDeleted, order)
	return nil
}

// publish sends an order event. Failures are logged and otherwise ignored.
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(OrderEvent{
		Event:      eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		ProductID:  order.ProductID,
		Quantity:   order.Quantity,
		Status:     order.Status,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("order_id", order.ID).Msg("failed to marshal order event")
		return
	}

	if err := s.publisher.Publish(ctx, eventType, body); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Str("order_id", order.ID).Msg("failed to publish order event")
		return
	}
	s.log.Debug().Str("event", eventType).Str("order_id", order.ID).Msg("published order event")
}
