package repositories

import (
	"errors"
	"fmt"

	"shopapi/internal/models"

	"gorm.io/gorm"
)

// wrapError maps GORM errors onto the shared sentinel errors so callers
// never have to know which driver is underneath.
func wrapError(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, models.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
