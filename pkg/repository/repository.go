package repository

import (
	"context"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/google/uuid"
)

// Page selects a slice of a listing. Page numbers start at 1.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// AccountRepository defines the data access operations on accounts.
type AccountRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	GetByINN(ctx context.Context, inn string) (*account.Account, error)
	// GetManyByINN returns the accounts that exist among inns, in the order
	// of inns. Missing identifiers are skipped, so callers compare lengths.
	GetManyByINN(ctx context.Context, inns []string) ([]*account.Account, error)
	// LockForTransfer row-locks the sender and every account among inns in
	// ascending id order and returns them. It must run inside UnitOfWork.Do.
	LockForTransfer(ctx context.Context, senderID uuid.UUID, inns []string) (
		sender *account.Account, recipients []*account.Account, err error)
	Create(ctx context.Context, acct *account.Account) error
	Save(ctx context.Context, acct *account.Account) error
	// SaveMany persists balances in chunks of batchSize rows.
	SaveMany(ctx context.Context, accts []*account.Account, batchSize int) error
	// List returns accounts newest first together with the total count.
	List(ctx context.Context, page Page) ([]*account.Account, int64, error)
}

// UserRepository defines the data access operations on credentials.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GrantCapability(ctx context.Context, accountID uuid.UUID, c user.Capability) error
}
