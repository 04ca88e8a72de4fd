package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"shopapi/internal/models"
	"shopapi/internal/services"
	"shopapi/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestProductService_GetAllProducts(t *testing.T) {
	images, _ := newTestImages(t)
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, images)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: 10.0},
		{ID: "2", Name: "Product B", Price: 20.0},
	}

	mockRepo.On("GetAll", "").Return(expectedProducts, nil).Once()
	mockRepo.On("GetAll", "prod").Return(expectedProducts[:1], nil).Once()

	products, err := service.GetAllProducts(context.Background(), "")
	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)

	products, err = service.GetAllProducts(context.Background(), "prod")
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	images, store := newTestImages(t)
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, images)

	mockRepo.On("Create", mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "Laptop" && p.Price == 1200 && p.Category == "computers" && p.Image != ""
	})).Return(nil).Once()

	product, err := service.CreateProduct(ctx, services.ProductInput{
		Name:     "Laptop",
		Price:    price(1200),
		Category: "computers",
		Image:    &storage.Upload{Filename: "laptop.jpg", Content: strings.NewReader("jpg")},
	})
	require.NoError(t, err)
	assert.FileExists(t, store.Path(storage.KindProduct, product.Image))

	// Creation failure (e.g., database error)
	mockRepo.On("Create", mock.Anything).Return(fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(ctx, services.ProductInput{Name: "Mouse"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	// Name is required
	_, err = service.CreateProduct(ctx, services.ProductInput{Price: price(5)})
	assert.True(t, errors.Is(err, models.ErrValidation))
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_OnlyPrice(t *testing.T) {
	images, _ := newTestImages(t)
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, images)

	stored := &models.Product{ID: "1", Name: "Laptop", Price: 1200, Category: "computers", Description: "fast", Image: "1.jpg"}
	mockRepo.On("GetByID", "1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(p *models.Product) bool {
		return p.Price == 10 && p.Name == "Laptop" && p.Category == "computers" && p.Description == "fast" && p.Image == "1.jpg"
	})).Return(nil).Once()

	updated, err := service.UpdateProduct(context.Background(), "1", services.ProductInput{Price: price(10)})
	require.NoError(t, err)
	assert.Equal(t, 10.0, updated.Price)
	assert.Equal(t, "Laptop", updated.Name)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	images, store := newTestImages(t)
	require.NoError(t, store.Save(ctx, storage.KindProduct, "old.jpg", strings.NewReader("old")))

	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, images)

	mockRepo.On("GetByID", "1").Return(&models.Product{ID: "1", Name: "Laptop", Image: "old.jpg"}, nil).Once()
	mockRepo.On("Update", mock.Anything).Return(nil).Once()

	updated, err := service.UpdateProduct(ctx, "1", services.ProductInput{
		Image: &storage.Upload{Filename: "new.jpg", Content: strings.NewReader("new")},
	})
	require.NoError(t, err)

	images.Wait()
	assert.NoFileExists(t, store.Path(storage.KindProduct, "old.jpg"))
	assert.FileExists(t, store.Path(storage.KindProduct, updated.Image))
}

func TestProductService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	images, _ := newTestImages(t)
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, images)

	// Successful deletion
	mockRepo.On("GetByID", "1").Return(&models.Product{ID: "1"}, nil).Once()
	mockRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	// Product not found
	mockRepo.On("GetByID", "99").Return(nil, notFound("product with ID 99")).Once()
	err := service.DeleteProduct(ctx, "99")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	mockRepo.AssertExpectations(t)
}
