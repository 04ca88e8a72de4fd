package handlers

import (
	"errors"
	"fmt"

	"shopapi/internal/models"
	"shopapi/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the standard error body for err.
func respondError(c *fiber.Ctx, log zerolog.Logger, message string, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(message)
	} else {
		log.Debug().Err(err).Int("status", code).Str("path", c.Path()).Msg(message)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// validationFailed writes the field-by-field validation error body.
func validationFailed(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// invalidBody writes the error body for an unparseable request.
func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// formUpload returns the file sent in the multipart field, or nil when the
// request carries none. The returned close func must always be called.
func formUpload(c *fiber.Ctx, field string) (*storage.Upload, func(), error) {
	noop := func() {}

	form, err := c.MultipartForm()
	if err != nil {
		// Not a multipart request, so there is no file.
		return nil, noop, nil
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, noop, nil
	}

	header := files[0]
	f, err := header.Open()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	return &storage.Upload{Filename: header.Filename, Content: f}, func() { f.Close() }, nil
}
