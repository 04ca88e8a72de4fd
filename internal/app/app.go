// Package app wires the HTTP server together from its dependencies.
package app

import (
	"errors"
	"time"

	"shopapi/internal/auth"
	"shopapi/internal/config"
	"shopapi/internal/database"
	"shopapi/internal/handlers"
	"shopapi/internal/middleware"
	"shopapi/internal/repositories"
	"shopapi/internal/services"
	"shopapi/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// bodyLimit caps request bodies, image uploads included.
const bodyLimit = 10 * 1024 * 1024

// Deps are the external resources the server is built from.
type Deps struct {
	Config config.Config
	DB     *gorm.DB
	Store  storage.Store
	Log    zerolog.Logger
	// Publisher receives order events; nil disables publishing.
	Publisher services.EventPublisher
}

// Server is the assembled application.
type Server struct {
	App    *fiber.App
	cfg    config.Config
	db     *gorm.DB
	images *storage.Images
	log    zerolog.Logger
}

// New builds the services, handlers and routes on top of deps.
func New(deps Deps) *Server {
	cfg := deps.Config
	log := deps.Log

	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)

	janitor := storage.NewJanitor(deps.Store, log.With().Str("component", "janitor").Logger())
	images := storage.NewImages(deps.Store, janitor)
	tokens := auth.NewTokenManager(cfg.JWTSecret, auth.WithTTL(cfg.JWTTTL))

	authService := services.NewAuthService(userRepo, tokens, images, cfg.BcryptCost)
	userService := services.NewUserService(userRepo, images, cfg.BcryptCost)
	productService := services.NewProductService(productRepo, images)
	orderService := services.NewOrderService(orderRepo, deps.Publisher, log)

	app := fiber.New(fiber.Config{
		AppName:      "shopapi",
		BodyLimit:    bodyLimit,
		ErrorHandler: errorHandler(log),
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	authRequired := middleware.AuthRequired(authService, log)

	api := app.Group("/api")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api)
	handlers.NewUserHandler(userService, log).RegisterRoutes(api)

	var productGuards []fiber.Handler
	if cfg.CatalogRequireAuth {
		productGuards = append(productGuards, authRequired)
	}
	handlers.NewProductHandler(productService, log).RegisterRoutes(api, productGuards...)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(api, authRequired)

	s := &Server{App: app, cfg: cfg, db: deps.DB, images: images, log: log}
	app.Get("/health", s.handleHealth)
	app.Static("/", cfg.PublicDir)
	return s
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	status, code := "healthy", fiber.StatusOK
	dbStatus := "connected"
	if err := database.Ping(s.db); err != nil {
		s.log.Error().Err(err).Msg("health check: database ping failed")
		status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbStatus,
	})
}

// Listen serves HTTP on the configured port until Shutdown is called.
func (s *Server) Listen() error {
	s.log.Info().Str("addr", s.cfg.AppPort).Msg("starting server")
	return s.App.Listen(s.cfg.AppPort)
}

// Shutdown stops accepting requests and waits for pending image removals.
func (s *Server) Shutdown() error {
	err := s.App.Shutdown()
	s.images.Wait()
	return err
}

// Wait blocks until pending image removals finish.
func (s *Server) Wait() {
	s.images.Wait()
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{
			"message": "Request failed",
			"error":   err.Error(),
		})
	}
}
