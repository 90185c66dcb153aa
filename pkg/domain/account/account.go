package account

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionAmountMustBePositive is returned when a debit or credit is not positive.
	ErrTransactionAmountMustBePositive = errors.New("transaction amount must be positive")

	// ErrNegativeBalance is returned when an account would be built with a negative balance.
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrNilAccount is returned when a nil account is passed to an operation.
	ErrNilAccount = errors.New("nil account")
)

// Account is the balance-holding aggregate. It carries no credentials or
// permissions; those live on user.User.
//
// Invariants:
//   - INN is a checksum-valid 12-digit identifier and never changes.
//   - Balance is never negative and always has at most two fractional digits.
type Account struct {
	ID        uuid.UUID
	INN       string
	Username  string
	FirstName string
	LastName  string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id        uuid.UUID
	inn       string
	username  string
	firstName string
	lastName  string
	balance   decimal.Decimal
	createdAt time.Time
	updatedAt time.Time
}

// New creates a new Builder with a fresh UUID and a zero balance.
func New() *Builder {
	now := time.Now().UTC()
	return &Builder{
		id:        uuid.New(),
		balance:   decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithINN sets the taxpayer identifier. This is a mandatory field.
func (b *Builder) WithINN(v string) *Builder {
	b.inn = v
	return b
}

// WithUsername sets the display username.
func (b *Builder) WithUsername(v string) *Builder {
	b.username = v
	return b
}

// WithName sets first and last name.
func (b *Builder) WithName(first, last string) *Builder {
	b.firstName = first
	b.lastName = last
	return b
}

// WithBalance sets the opening balance. This should only be used for
// hydrating an account from a data store, provisioning or test setup.
func (b *Builder) WithBalance(balance decimal.Decimal) *Builder {
	b.balance = balance
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.createdAt = t
	return b
}

// WithUpdatedAt sets the last-updated timestamp.
func (b *Builder) WithUpdatedAt(t time.Time) *Builder {
	b.updatedAt = t
	return b
}

// Build validates all invariants and returns the Account.
func (b *Builder) Build() (*Account, error) {
	if err := inn.Validate(b.inn); err != nil {
		return nil, err
	}
	if b.balance.IsNegative() {
		return nil, ErrNegativeBalance
	}
	if err := money.ValidatePrecision(b.balance); err != nil {
		return nil, err
	}
	if b.id == uuid.Nil {
		return nil, errors.New("account id is required")
	}
	return &Account{
		ID:        b.id,
		INN:       b.inn,
		Username:  b.username,
		FirstName: b.firstName,
		LastName:  b.lastName,
		Balance:   b.balance,
		CreatedAt: b.createdAt,
		UpdatedAt: b.updatedAt,
	}, nil
}

// FullName joins first and last name the way profile listings show it.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// HasFunds reports whether the balance covers amount.
func (a *Account) HasFunds(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// Debit removes amount from the balance.
// Invariants enforced:
//   - amount must be positive.
//   - the resulting balance must not be negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrTransactionAmountMustBePositive
	}
	if !a.HasFunds(amount) {
		return ErrInsufficientFunds
	}
	a.Balance = money.Round(a.Balance.Sub(amount))
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrTransactionAmountMustBePositive
	}
	a.Balance = money.Round(a.Balance.Add(amount))
	return nil
}
