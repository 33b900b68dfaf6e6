package persistence

import (
	"errors"
	"fmt"

	"github.com/mediaassoc/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm errors onto domain errors. It relies on the
// connection being opened with TranslateError so unique violations arrive
// as gorm.ErrDuplicatedKey regardless of the driver.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, resource+" already exists")
	default:
		return fmt.Errorf("%s: %w", resource, err)
	}
}
