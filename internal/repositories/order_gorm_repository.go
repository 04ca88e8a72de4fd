package repositories

import (
	"context"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetByUser returns the orders owned by userID, newest first.
func (r *GORMOrderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, wrapError(err, "failed to get orders for user %s", userID)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Product").First(&order, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, "order with ID %s", id)
	}
	return &order, nil
}

// Create adds a new order. The referenced product is not checked.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return wrapError(err, "failed to create order")
	}
	return nil
}

// Update writes the mutable columns of order back to its row. The owner and
// creation time are create-only columns and are never rewritten.
func (r *GORMOrderRepository) Update(ctx context.Context, order *models.Order) error {
	res := r.db.WithContext(ctx).Model(order).Omit(clause.Associations).Select("*").Updates(order)
	if res.Error != nil {
		return wrapError(res.Error, "failed to update order %s", order.ID)
	}
	if res.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "order with ID %s not found for update", order.ID)
	}
	return nil
}

// Delete removes an order by its ID.
func (r *GORMOrderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return wrapError(res.Error, "failed to delete order %s", id)
	}
	if res.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "order with ID %s not found for deletion", id)
	}
	return nil
}
