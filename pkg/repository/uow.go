package repository

import "context"

// UnitOfWork scopes repository access to one transaction.
//
// Do runs fn inside a transaction; repositories obtained from the UnitOfWork
// passed to fn share that transaction. Returning an error (or panicking)
// rolls everything back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	AccountRepository() (AccountRepository, error)
	UserRepository() (UserRepository, error)
}
