package user

import (
	"errors"
	"slices"
	"time"

	"github.com/amirasaad/splitpay/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrUnknownCapability is returned when granting a capability that does not exist.
	ErrUnknownCapability = errors.New("unknown capability")
)

// Capability is a named permission checked by the HTTP layer.
type Capability string

const (
	// CanViewAccounts allows listing and reading accounts.
	CanViewAccounts Capability = "view_account"
	// CanMoneyTransfer allows initiating a split transfer.
	CanMoneyTransfer Capability = "can_money_transfer"
)

// ParseCapability returns the capability named s.
func ParseCapability(s string) (Capability, error) {
	switch c := Capability(s); c {
	case CanViewAccounts, CanMoneyTransfer:
		return c, nil
	}
	return "", ErrUnknownCapability
}

// User holds the login credentials and capabilities of an account holder.
// It shares its ID with the account it belongs to.
type User struct {
	AccountID    uuid.UUID
	PasswordHash string
	Capabilities []Capability
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a new User with a hashed password.
func NewUser(accountID uuid.UUID, password string, capabilities ...Capability) (*User, error) {
	if accountID == uuid.Nil {
		return nil, errors.New("account id cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		AccountID:    accountID,
		PasswordHash: hashedPassword,
		Capabilities: capabilities,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Has reports whether the user was granted c.
func (u *User) Has(c Capability) bool {
	return slices.Contains(u.Capabilities, c)
}

// Grant adds c if the user does not hold it yet.
func (u *User) Grant(c Capability) {
	if !u.Has(c) {
		u.Capabilities = append(u.Capabilities, c)
	}
}

// CheckPassword compares password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.PasswordHash)
}
