package repository_test

import (
	"context"
	"testing"

	infrarepo "github.com/amirasaad/splitpay/infra/repository"
	"github.com/amirasaad/splitpay/pkg/domain"
	"github.com/amirasaad/splitpay/pkg/domain/user"
	"github.com/amirasaad/splitpay/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := infrarepo.NewUserRepository(db)
	ctx := context.Background()

	acc := testutils.CreateAccount(t, db, testutils.SenderINN, "0")
	testutils.CreateUser(t, db, acc, "secret", user.CanViewAccounts)

	u, err := repo.GetByUsername(ctx, acc.Username)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, u.AccountID)
	assert.True(t, u.CheckPassword("secret"))
	assert.True(t, u.Has(user.CanViewAccounts))
	assert.False(t, u.Has(user.CanMoneyTransfer))

	require.NoError(t, repo.GrantCapability(ctx, acc.ID, user.CanMoneyTransfer))
	require.NoError(t, repo.GrantCapability(ctx, acc.ID, user.CanMoneyTransfer))

	u, err = repo.GetByAccountID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, []user.Capability{user.CanViewAccounts, user.CanMoneyTransfer}, u.Capabilities)
}

func TestUserRepository_NotFound(t *testing.T) {
	db := testutils.NewSQLiteDB(t)
	repo := infrarepo.NewUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "nobody")
	require.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetByAccountID(ctx, uuid.New())
	require.ErrorIs(t, err, user.ErrUserNotFound)

	require.ErrorIs(t, repo.GrantCapability(ctx, uuid.New(), user.CanMoneyTransfer), user.ErrUserNotFound)
}
