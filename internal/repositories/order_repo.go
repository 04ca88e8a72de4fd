package repositories

import (
	"context"

	"shopapi/internal/models"
)

// OrderRepository defines the interface for order data access. Reads return
// orders with their product preloaded when it still exists.
type OrderRepository interface {
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
}
