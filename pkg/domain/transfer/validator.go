package transfer

import (
	"context"
	"fmt"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/shopspring/decimal"
)

// AccountFinder resolves recipient identifiers to accounts.
type AccountFinder interface {
	GetManyByINN(ctx context.Context, inns []string) ([]*account.Account, error)
}

// state is threaded through the checks. Later checks may rely on fields
// filled by earlier ones.
type state struct {
	sender     *account.Account
	recipients []string
	amount     decimal.Decimal
	accounts   []*account.Account
	share      decimal.Decimal
}

type check func(ctx context.Context, s *state) error

// Validator runs the transfer checks in order and stops at the first failure.
// It never mutates accounts.
type Validator struct {
	finder AccountFinder
	checks []check
}

// NewValidator returns a Validator that resolves recipients through finder.
func NewValidator(finder AccountFinder) *Validator {
	v := &Validator{finder: finder}
	v.checks = []check{
		checkAmount,
		checkNotEmpty,
		checkUnique,
		checkIdentifiers,
		v.checkRecipientsExist,
		checkFunds,
		checkShare,
	}
	return v
}

// Validate checks a transfer of amount from sender split across recipients.
func (v *Validator) Validate(
	ctx context.Context,
	sender *account.Account,
	recipients []string,
	amount decimal.Decimal,
) (*Validated, error) {
	if sender == nil {
		return nil, account.ErrAccountNotFound
	}
	s := &state{sender: sender, recipients: recipients, amount: amount}
	for _, c := range v.checks {
		if err := c(ctx, s); err != nil {
			return nil, err
		}
	}
	return &Validated{
		SenderID:           sender.ID,
		Recipients:         append([]string(nil), recipients...),
		Accounts:           s.accounts,
		Amount:             amount,
		AmountPerRecipient: s.share,
		TotalDebit:         s.share.Mul(decimal.NewFromInt(int64(len(recipients)))),
	}, nil
}

func checkAmount(_ context.Context, s *state) error {
	if err := money.ValidateAmount(s.amount); err != nil {
		return NewError(KindInvalidAmount, "amount", err.Error(), err)
	}
	return nil
}

func checkNotEmpty(_ context.Context, s *state) error {
	if len(s.recipients) == 0 {
		return NewError(KindEmptyRecipients, "list_of_inn", ErrEmptyRecipients.Message, nil)
	}
	return nil
}

func checkUnique(_ context.Context, s *state) error {
	seen := make(map[string]struct{}, len(s.recipients))
	for _, r := range s.recipients {
		if _, ok := seen[r]; ok {
			return NewError(KindDuplicateRecipient, "list_of_inn",
				fmt.Sprintf("INN %s is listed more than once", r), nil)
		}
		seen[r] = struct{}{}
	}
	return nil
}

func checkIdentifiers(_ context.Context, s *state) error {
	for _, r := range s.recipients {
		if err := inn.Validate(r); err != nil {
			return NewError(KindInvalidIdentifier, "list_of_inn",
				fmt.Sprintf("%q: %v", r, err), err)
		}
	}
	return nil
}

func (v *Validator) checkRecipientsExist(ctx context.Context, s *state) error {
	accts, err := v.finder.GetManyByINN(ctx, s.recipients)
	if err != nil {
		return StorageFailure(err)
	}
	if len(accts) != len(s.recipients) {
		return NewError(KindUnknownRecipient, "list_of_inn", ErrUnknownRecipient.Message, nil)
	}
	s.accounts = accts
	return nil
}

func checkFunds(_ context.Context, s *state) error {
	if !s.sender.HasFunds(s.amount) {
		return NewError(KindInsufficientFunds, "amount",
			"your balance is less than the amount you want to transfer", nil)
	}
	return nil
}

func checkShare(_ context.Context, s *state) error {
	s.share = money.Share(s.amount, len(s.recipients))
	if s.share.LessThan(money.MinUnit) {
		return NewError(KindSplitTooSmall, "amount", ErrSplitTooSmall.Message, nil)
	}
	return nil
}
