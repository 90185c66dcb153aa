package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/repository"
	"github.com/amirasaad/splitpay/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a gorm backed AccountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %w", account.ErrAccountNotFound, err)
	}
	return err
}

// Get implements repository.AccountRepository.
func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	}); err != nil {
		return nil, notFound(err)
	}
	return mapAccountToDomain(&m), nil
}

// GetByINN implements repository.AccountRepository.
func (r *accountRepository) GetByINN(ctx context.Context, inn string) (*account.Account, error) {
	var m Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&m, "inn = ?", inn).Error
	}); err != nil {
		return nil, notFound(err)
	}
	return mapAccountToDomain(&m), nil
}

// GetManyByINN implements repository.AccountRepository.
func (r *accountRepository) GetManyByINN(ctx context.Context, inns []string) ([]*account.Account, error) {
	if len(inns) == 0 {
		return []*account.Account{}, nil
	}
	var rows []Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Where("inn IN ?", inns).Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	byINN := make(map[string]*account.Account, len(rows))
	for i := range rows {
		byINN[rows[i].INN] = mapAccountToDomain(&rows[i])
	}
	return inINNOrder(inns, byINN), nil
}

// LockForTransfer implements repository.AccountRepository. All rows are
// locked by one statement in id order so crossing transfers queue instead of
// deadlocking. A sender listed among inns is returned as the same pointer in
// both results.
func (r *accountRepository) LockForTransfer(
	ctx context.Context,
	senderID uuid.UUID,
	inns []string,
) (*account.Account, []*account.Account, error) {
	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Order("id")
	if len(inns) > 0 {
		q = q.Where("id = ? OR inn IN ?", senderID, inns)
	} else {
		q = q.Where("id = ?", senderID)
	}
	var rows []Account
	if err := WrapError(func() error { return q.Find(&rows).Error }); err != nil {
		return nil, nil, err
	}

	var sender *account.Account
	byINN := make(map[string]*account.Account, len(rows))
	for i := range rows {
		a := mapAccountToDomain(&rows[i])
		if a.ID == senderID {
			sender = a
		}
		byINN[a.INN] = a
	}
	if sender == nil {
		return nil, nil, fmt.Errorf("%w: %s", account.ErrAccountNotFound, senderID)
	}
	return sender, inINNOrder(inns, byINN), nil
}

func inINNOrder(inns []string, byINN map[string]*account.Account) []*account.Account {
	out := make([]*account.Account, 0, len(inns))
	for _, inn := range inns {
		if a, ok := byINN[inn]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Create implements repository.AccountRepository.
func (r *accountRepository) Create(ctx context.Context, acct *account.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(mapAccountToModel(acct)).Error
	})
}

// Save implements repository.AccountRepository. Only the mutable columns are
// written.
func (r *accountRepository) Save(ctx context.Context, acct *account.Account) error {
	acct.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", acct.ID).Updates(map[string]any{
		"balance":    acct.Balance,
		"username":   acct.Username,
		"first_name": acct.FirstName,
		"last_name":  acct.LastName,
		"updated_at": acct.UpdatedAt,
	})
	if err := MapGormErrorToDomain(res.Error); err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", account.ErrAccountNotFound, acct.ID)
	}
	return nil
}

// SaveMany implements repository.AccountRepository. Each chunk becomes one
// UPDATE ... SET balance = CASE id WHEN ... END WHERE id IN (...).
func (r *accountRepository) SaveMany(ctx context.Context, accts []*account.Account, batchSize int) error {
	now := time.Now().UTC()
	for _, chunk := range utils.Chunk(accts, batchSize) {
		expr, args, ids := balanceCase(chunk)
		res := r.db.WithContext(ctx).Model(&Account{}).Where("id IN ?", ids).Updates(map[string]any{
			"balance":    gorm.Expr(expr, args...),
			"updated_at": now,
		})
		if err := MapGormErrorToDomain(res.Error); err != nil {
			return err
		}
		if res.RowsAffected != int64(len(chunk)) {
			return fmt.Errorf("%w: updated %d of %d accounts",
				account.ErrAccountNotFound, res.RowsAffected, len(chunk))
		}
		for _, a := range chunk {
			a.UpdatedAt = now
		}
	}
	return nil
}

func balanceCase(chunk []*account.Account) (string, []any, []uuid.UUID) {
	var sb strings.Builder
	args := make([]any, 0, 2*len(chunk))
	ids := make([]uuid.UUID, 0, len(chunk))
	sb.WriteString("CASE id")
	for _, a := range chunk {
		sb.WriteString(" WHEN ? THEN CAST(? AS NUMERIC)")
		args = append(args, a.ID, a.Balance.StringFixed(2))
		ids = append(ids, a.ID)
	}
	sb.WriteString(" END")
	return sb.String(), args, ids
}

// List implements repository.AccountRepository.
func (r *accountRepository) List(ctx context.Context, page repository.Page) ([]*account.Account, int64, error) {
	var total int64
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Account{}).Count(&total).Error
	}); err != nil {
		return nil, 0, err
	}
	var rows []Account
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Order("created_at DESC").Order("id").
			Offset(page.Offset()).Limit(page.Size).
			Find(&rows).Error
	}); err != nil {
		return nil, 0, err
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, mapAccountToDomain(&rows[i]))
	}
	return out, total, nil
}
