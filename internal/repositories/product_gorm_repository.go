package repositories

import (
	"context"
	"strings"

	"shopapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves products from the database, optionally filtered by name.
func (r *GORMProductRepository) GetAll(ctx context.Context, query string) ([]models.Product, error) {
	products := []models.Product{}
	tx := r.db.WithContext(ctx).Order("created_at ASC")
	if query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}
	if err := tx.Find(&products).Error; err != nil {
		return nil, wrapError(err, "failed to get products")
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, wrapError(err, "product with ID %s", id)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return wrapError(err, "failed to create product")
	}
	return nil
}

// Update writes every column of product back to its row, including zero
// values such as a price of 0.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Omit(clause.Associations).Select("*").Updates(product)
	if res.Error != nil {
		return wrapError(res.Error, "failed to update product %s", product.ID)
	}
	if res.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "product with ID %s not found for update", product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database. Orders that
// reference it are left untouched.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return wrapError(res.Error, "failed to delete product %s", id)
	}
	if res.RowsAffected == 0 {
		return wrapError(gorm.ErrRecordNotFound, "product with ID %s not found for deletion", id)
	}
	return nil
}
