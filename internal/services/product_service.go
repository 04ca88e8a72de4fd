package services

import (
	"context"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/storage"
)

// ProductInput carries product fields. For updates, empty strings and nil
// pointers leave the stored value unchanged.
type ProductInput struct {
	Name        string
	Price       *float64
	Category    string
	Description string
	Image       *storage.Upload
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	images *storage.Images
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images *storage.Images) *ProductService {
	return &ProductService{
		repo:   repo,
		images: images,
	}
}

// GetAllProducts retrieves all products, or those whose name contains query.
func (s *ProductService) GetAllProducts(ctx context.Context, query string) ([]models.Product, error) {
	return s.repo.GetAll(ctx, query)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", models.ErrValidation)
	}

	image, err := s.images.Save(ctx, storage.KindProduct, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}

	product := &models.Product{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		Image:       image,
	}
	if in.Price != nil {
		product.Price = *in.Price
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.images.Discard(storage.KindProduct, image)
		return nil, err
	}
	return product, nil
}

// UpdateProduct merges the supplied fields into the stored product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Description != "" {
		product.Description = in.Description
	}

	image, err := s.images.Save(ctx, storage.KindProduct, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to save product image: %w", err)
	}
	previous := product.Image
	if image != "" {
		product.Image = image
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.images.Discard(storage.KindProduct, image)
		return nil, err
	}
	if image != "" {
		s.images.Discard(storage.KindProduct, previous)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. Orders referencing it are kept.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.Discard(storage.KindProduct, product.Image)
	return nil
}
