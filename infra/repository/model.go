package repository

import (
	"time"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents an account record in the database.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	INN       string          `gorm:"column:inn;type:varchar(12);uniqueIndex;not null"`
	Username  string          `gorm:"type:varchar(150);uniqueIndex;not null"`
	FirstName string          `gorm:"type:varchar(150);not null;default:''"`
	LastName  string          `gorm:"type:varchar(150);not null;default:''"`
	Balance   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// User holds login credentials; it shares its key with the account.
type User struct {
	AccountID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	PasswordHash string    `gorm:"not null"`
	Capabilities []string  `gorm:"serializer:json;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Models lists every table managed by the repositories, for AutoMigrate.
func Models() []any {
	return []any{&Account{}, &User{}}
}

func mapAccountToModel(a *account.Account) *Account {
	return &Account{
		ID:        a.ID,
		INN:       a.INN,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func mapAccountToDomain(m *Account) *account.Account {
	return &account.Account{
		ID:        m.ID,
		INN:       m.INN,
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapUserToModel(u *user.User) *User {
	caps := make([]string, 0, len(u.Capabilities))
	for _, c := range u.Capabilities {
		caps = append(caps, string(c))
	}
	return &User{
		AccountID:    u.AccountID,
		PasswordHash: u.PasswordHash,
		Capabilities: caps,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func mapUserToDomain(m *User) *user.User {
	caps := make([]user.Capability, 0, len(m.Capabilities))
	for _, c := range m.Capabilities {
		caps = append(caps, user.Capability(c))
	}
	return &user.User{
		AccountID:    m.AccountID,
		PasswordHash: m.PasswordHash,
		Capabilities: caps,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
