package middleware

import (
	"errors"
	"strings"

	"shopapi/internal/auth"
	"shopapi/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// TokenVerifier verifies a bearer token and returns the caller identity.
type TokenVerifier interface {
	ValidateToken(token string) (auth.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// No token at all is answered with 401; a token that fails verification
// is answered with 403.
func AuthRequired(verifier TokenVerifier, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := verifier.ValidateToken(bearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			if errors.Is(err, models.ErrUnauthenticated) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header with a Bearer token is required",
				})
			}
			log.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store the identity in Fiber context for subsequent handlers
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Identity returns the caller identity stored by AuthRequired.
func Identity(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

// bearerToken extracts the token from "Bearer <token>", or "" if the header
// is missing or uses another scheme.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
