// Package testutils provides database fixtures shared by package tests.
package testutils

import (
	"context"
	"fmt"
	"testing"

	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SenderINN is the identifier used for the sending account in tests.
const SenderINN = "031473063921"

// RecipientINNs are fifteen checksum-valid identifiers.
var RecipientINNs = []string{
	"089931674169",
	"807044778410",
	"190124586099",
	"910652482319",
	"233206048990",
	"590755958293",
	"538047207826",
	"740748858710",
	"423174411167",
	"508845617168",
	"538090067332",
	"270398188692",
	"813276814314",
	"754990672647",
	"000000000000",
}

// NewSQLiteDB opens a private in-memory database with the schema migrated.
// The pool holds a single connection, so callers must not touch the db
// outside an open transaction while it runs.
func NewSQLiteDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(tb, err)

	sqlDB, err := db.DB()
	require.NoError(tb, err)
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(tb, db.AutoMigrate(infrarepo.Models()...))
	return db
}

// CreateAccount inserts an account with the given identifier and balance.
// The username is "user_<inn>".
func CreateAccount(tb testing.TB, db *gorm.DB, inn, balance string) *account.Account {
	tb.Helper()
	acc, err := account.New().
		WithINN(inn).
		WithUsername("user_" + inn).
		WithBalance(decimal.RequireFromString(balance)).
		Build()
	require.NoError(tb, err)
	require.NoError(tb, infrarepo.NewAccountRepository(db).Create(context.Background(), acc))
	return acc
}

// CreateUser attaches credentials to acc.
func CreateUser(tb testing.TB, db *gorm.DB, acc *account.Account, password string, caps ...user.Capability) *user.User {
	tb.Helper()
	u, err := user.NewUser(acc.ID, password, caps...)
	require.NoError(tb, err)
	require.NoError(tb, infrarepo.NewUserRepository(db).Create(context.Background(), u))
	return u
}

// Balance reads the stored balance of the account with the given identifier.
func Balance(tb testing.TB, db *gorm.DB, inn string) decimal.Decimal {
	tb.Helper()
	acc, err := infrarepo.NewAccountRepository(db).GetByINN(context.Background(), inn)
	require.NoError(tb, err)
	return acc.Balance
}
