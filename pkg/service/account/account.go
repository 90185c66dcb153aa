// Package account provides the account queries and the provisioning
// operations used by the CLI: opening an account with its credentials and
// granting capabilities.
package account

import (
	"context"
	"log/slog"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is used when a listing asks for no size.
const DefaultPageSize = 20

// MaxPageSize caps the page size of a listing.
const MaxPageSize = 100

// Service provides business logic for account operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger.With("service", "account")}
}

// Open describes an account to be created together with its login.
type Open struct {
	INN          string
	Username     string
	FirstName    string
	LastName     string
	Balance      decimal.Decimal
	Password     string
	Capabilities []user.Capability
}

// OpenAccount creates the account and its user in one transaction.
func (s *Service) OpenAccount(ctx context.Context, req Open) (a *account.Account, err error) {
	logger := s.logger.With("inn", req.INN, "username", req.Username)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		a, err = account.New().
			WithINN(req.INN).
			WithUsername(req.Username).
			WithName(req.FirstName, req.LastName).
			WithBalance(req.Balance).
			Build()
		if err != nil {
			return err
		}
		if err := accounts.Create(ctx, a); err != nil {
			return err
		}
		u, err := user.NewUser(a.ID, req.Password, req.Capabilities...)
		if err != nil {
			return err
		}
		return users.Create(ctx, u)
	})
	if err != nil {
		logger.Error("OpenAccount failed", "error", err)
		return nil, err
	}
	logger.Info("OpenAccount successful", "account_id", a.ID)
	return a, nil
}

// GetAccount retrieves an account by its id.
func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetAccountByINN retrieves an account by its identifier.
func (s *Service) GetAccountByINN(ctx context.Context, inn string) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetByINN(ctx, inn)
}

// ListAccounts returns one page of accounts, newest first, and the total
// number of accounts. Out of range sizes are clamped.
func (s *Service) ListAccounts(ctx context.Context, page repository.Page) ([]*account.Account, int64, error) {
	if page.Number < 1 {
		page.Number = 1
	}
	switch {
	case page.Size < 1:
		page.Size = DefaultPageSize
	case page.Size > MaxPageSize:
		page.Size = MaxPageSize
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, 0, err
	}
	return repo.List(ctx, page)
}

// GrantCapability gives the user logging in as username the capability c.
func (s *Service) GrantCapability(ctx context.Context, username string, c user.Capability) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err := users.GetByUsername(ctx, username)
		if err != nil {
			return err
		}
		return users.GrantCapability(ctx, u.AccountID, c)
	})
	if err != nil {
		s.logger.Error("GrantCapability failed", "username", username, "capability", c, "error", err)
		return err
	}
	s.logger.Info("GrantCapability successful", "username", username, "capability", c)
	return nil
}
