// Package auth authenticates account holders and checks their capabilities.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/amirasaad/splitpay/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths cost one bcrypt comparison.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Service issues JWTs and answers capability questions.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates a Service signing tokens with cfg.
func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger.With("service", "auth")}
}

// Login checks username and password. Unknown users and wrong passwords both
// return user.ErrUserUnauthorized.
func (s *Service) Login(ctx context.Context, username, password string) (*user.User, error) {
	log := s.logger.With("username", username)
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository: %w", err)
	}
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			log.Error("Login failed", "error", err)
			return nil, err
		}
		_ = utils.CheckPasswordHash(password, dummyHash)
		log.Info("Login failed: unknown user")
		return nil, user.ErrUserUnauthorized
	}
	if !u.CheckPassword(password) {
		log.Info("Login failed: wrong password")
		return nil, user.ErrUserUnauthorized
	}
	log.Info("Login successful", "account_id", u.AccountID)
	return u, nil
}

// GenerateToken signs an HS256 token carrying the account id as user_id.
func (s *Service) GenerateToken(u *user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.AccountID.String(),
		"exp":     time.Now().Add(s.cfg.Expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("GenerateToken failed", "account_id", u.AccountID, "error", err)
		return "", err
	}
	return signed, nil
}

// GetCurrentUserID reads the user_id claim of a verified token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", user.ErrUserUnauthorized, err)
	}
	return id, nil
}

// Authorize returns domain.ErrForbidden unless the user behind accountID
// holds c. A vanished user is reported as user.ErrUserUnauthorized.
func (s *Service) Authorize(ctx context.Context, accountID uuid.UUID, c user.Capability) error {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return fmt.Errorf("failed to get user repository: %w", err)
	}
	u, err := repo.GetByAccountID(ctx, accountID)
	if errors.Is(err, user.ErrUserNotFound) {
		return user.ErrUserUnauthorized
	}
	if err != nil {
		return err
	}
	if !u.Has(c) {
		s.logger.Info("capability missing", "account_id", accountID, "capability", c)
		return fmt.Errorf("%w: %s required", domain.ErrForbidden, c)
	}
	return nil
}
