package handlers

import (
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
	log     zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes. writeGuards run in front of
// the create, update and delete routes only.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, writeGuards ...fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", guarded(writeGuards, h.HandleCreateProduct)...)
	productRoutes.Put("/:id", guarded(writeGuards, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:id", guarded(writeGuards, h.HandleDeleteProduct)...)
}

func guarded(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, handler)
}

// HandleGetProducts lists products, filtered by name when ?query= is set.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext(), c.Query("query"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from multipart fields and an
// optional image file.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, closeUpload, err := productInput(c)
	if err != nil {
		return respondError(c, h.log, "Invalid product", err)
	}
	defer closeUpload()

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct merges the supplied multipart fields into a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	in, closeUpload, err := productInput(c)
	if err != nil {
		return respondError(c, h.log, "Invalid product", err)
	}
	defer closeUpload()

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %s deleted successfully", id),
	})
}

// ProductRequest carries product fields sent as multipart form or JSON.
// Absent fields are left unchanged on update.
type ProductRequest struct {
	Name        string   `json:"name" form:"name"`
	Price       *float64 `json:"price" form:"price"`
	Category    string   `json:"category" form:"category"`
	Description string   `json:"description" form:"description"`
}

func productInput(c *fiber.Ctx) (services.ProductInput, func(), error) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return services.ProductInput{}, func() {}, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	in := services.ProductInput{
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
	}

	upload, closeUpload, err := formUpload(c, "image")
	if err != nil {
		return in, closeUpload, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	in.Image = upload
	return in, closeUpload, nil
}
