package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a gorm backed UserRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func userNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %w", user.ErrUserNotFound, err)
	}
	return err
}

// Create implements repository.UserRepository.
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapUserToModel(u)).Error
	})
}

// GetByAccountID implements repository.UserRepository.
func (r *userRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*user.User, error) {
	var m User
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "account_id = ?", accountID).Error
	}); err != nil {
		return nil, userNotFound(err)
	}
	return mapUserToDomain(&m), nil
}

// GetByUsername implements repository.UserRepository. Usernames live on the
// account, so the lookup joins through it.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	var m User
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Joins("JOIN accounts ON accounts.id = users.account_id").
			Where("accounts.username = ?", username).
			First(&m).Error
	}); err != nil {
		return nil, userNotFound(err)
	}
	return mapUserToDomain(&m), nil
}

// GrantCapability implements repository.UserRepository.
func (r *userRepository) GrantCapability(ctx context.Context, accountID uuid.UUID, c user.Capability) error {
	u, err := r.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	u.Grant(c)
	u.UpdatedAt = time.Now().UTC()
	m := mapUserToModel(u)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(m).Select("capabilities", "updated_at").Updates(m).Error
	})
}
