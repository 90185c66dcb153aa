package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/splitpay/pkg/domain"
	"gorm.io/gorm"
)

// gormErrors pairs gorm sentinels with the domain error callers see.
// Order matters when a joined error carries more than one.
var gormErrors = []struct {
	gorm   error
	domain error
}{
	{gorm.ErrRecordNotFound, domain.ErrNotFound},
	{gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
	{gorm.ErrForeignKeyViolated, domain.ErrValidation},
	{gorm.ErrCheckConstraintViolated, domain.ErrValidation},
}

// MapGormErrorToDomain converts gorm errors to domain errors so driver types
// never leave this package. Duplicate and foreign key errors are only
// recognised when the connection was opened with TranslateError.
// Unmapped errors are returned unchanged.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range gormErrors {
		if errors.Is(err, m.gorm) {
			if err == m.gorm {
				return m.domain
			}
			return fmt.Errorf("%w: %v", m.domain, err)
		}
	}
	return err
}

// WrapError runs a gorm operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(row).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
