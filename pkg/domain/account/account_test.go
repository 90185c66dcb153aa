package account_test

import (
	"testing"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("builds valid account", func(t *testing.T) {
		id := uuid.New()
		a, err := account.New().
			WithID(id).
			WithINN("089931674169").
			WithUsername("ivanov").
			WithName("Ivan", "Ivanov").
			WithBalance(decimal.RequireFromString("2.15")).
			Build()
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)
		assert.Equal(t, "089931674169", a.INN)
		assert.Equal(t, "Ivan Ivanov", a.FullName())
		assert.True(t, decimal.RequireFromString("2.15").Equal(a.Balance))
	})

	t.Run("rejects invalid INN", func(t *testing.T) {
		_, err := account.New().WithINN("009931674169").Build()
		require.ErrorIs(t, err, inn.ErrInvalid)
	})

	t.Run("rejects negative balance", func(t *testing.T) {
		_, err := account.New().WithINN("089931674169").WithBalance(decimal.NewFromInt(-1)).Build()
		require.ErrorIs(t, err, account.ErrNegativeBalance)
	})

	t.Run("rejects sub-cent balance", func(t *testing.T) {
		_, err := account.New().WithINN("089931674169").WithBalance(decimal.RequireFromString("1.999")).Build()
		require.ErrorIs(t, err, money.ErrTooManyDecimals)
	})

	t.Run("rejects oversized balance", func(t *testing.T) {
		_, err := account.New().WithINN("089931674169").WithBalance(decimal.NewFromInt(10000000000)).Build()
		require.ErrorIs(t, err, money.ErrTooManyDigits)
	})
}

func TestAccount_DebitCredit(t *testing.T) {
	newAccount := func(balance string) *account.Account {
		a, err := account.New().WithINN("807044778410").WithBalance(decimal.RequireFromString(balance)).Build()
		require.NoError(t, err)
		return a
	}

	t.Run("debit to exactly zero", func(t *testing.T) {
		a := newAccount("60")
		require.NoError(t, a.Debit(decimal.RequireFromString("60.00")))
		assert.True(t, a.Balance.IsZero())
	})

	t.Run("debit over balance", func(t *testing.T) {
		a := newAccount("0.15")
		require.ErrorIs(t, a.Debit(decimal.RequireFromString("0.16")), account.ErrInsufficientFunds)
		assert.True(t, decimal.RequireFromString("0.15").Equal(a.Balance))
	})

	t.Run("non-positive amounts", func(t *testing.T) {
		a := newAccount("1")
		require.ErrorIs(t, a.Debit(decimal.Zero), account.ErrTransactionAmountMustBePositive)
		require.ErrorIs(t, a.Credit(decimal.NewFromInt(-1)), account.ErrTransactionAmountMustBePositive)
	})

	t.Run("credit keeps two decimals", func(t *testing.T) {
		a := newAccount("0")
		require.NoError(t, a.Credit(decimal.RequireFromString("0.08")))
		require.NoError(t, a.Credit(decimal.RequireFromString("0.08")))
		assert.Equal(t, "0.16", money.Format(a.Balance))
	})
}
