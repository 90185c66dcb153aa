package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/splitpay/pkg/domain/account"
	"github.com/amirasaad/splitpay/pkg/domain/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var sampleINNs = []string{
	"089931674169", "807044778410", "190124586099", "910652482319",
	"233206048990", "590755958293", "538047207826", "740748858710",
	"423174411167", "508845617168", "538090067332", "270398188692",
	"813276814314", "754990672647", "000000000000",
}

const senderINN = "031473063921"

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) GetManyByINN(ctx context.Context, inns []string) ([]*account.Account, error) {
	args := m.Called(ctx, inns)
	accts, _ := args.Get(0).([]*account.Account)
	return accts, args.Error(1)
}

func newAccount(t *testing.T, inn, balance string) *account.Account {
	t.Helper()
	acc, err := account.New().WithINN(inn).WithBalance(decimal.RequireFromString(balance)).Build()
	require.NoError(t, err)
	return acc
}

func accountsFor(t *testing.T, inns []string) []*account.Account {
	t.Helper()
	out := make([]*account.Account, 0, len(inns))
	for _, i := range inns {
		out = append(out, newAccount(t, i, "0"))
	}
	return out
}

func TestValidator_Valid(t *testing.T) {
	tests := []struct {
		balance    string
		amount     string
		recipients int
		share      string
		debit      string
	}{
		{"0.70", "0.70", 8, "0.08", "0.64"},
		{"0.70", "0.70", 6, "0.11", "0.66"},
		{"60", "60", 10, "6", "60"},
		{"10", "10", 9, "1.11", "9.99"},
		{"2.15", "0.15", 15, "0.01", "0.15"},
		{"1000000000", "1000000000", 15, "66666666.66", "999999999.9"},
	}
	for _, tt := range tests {
		t.Run(tt.amount+"_from_"+tt.balance, func(t *testing.T) {
			recipients := sampleINNs[:tt.recipients]
			finder := new(mockFinder)
			finder.On("GetManyByINN", mock.Anything, recipients).Return(accountsFor(t, recipients), nil)

			sender := newAccount(t, senderINN, tt.balance)
			v, err := transfer.NewValidator(finder).Validate(
				context.Background(), sender, recipients, decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.True(t, v.AmountPerRecipient.Equal(decimal.RequireFromString(tt.share)),
				"share %s", v.AmountPerRecipient)
			assert.True(t, v.TotalDebit.Equal(decimal.RequireFromString(tt.debit)),
				"debit %s", v.TotalDebit)
			assert.Equal(t, sender.ID, v.SenderID)
			assert.Equal(t, recipients, v.Recipients)
			assert.Len(t, v.Accounts, tt.recipients)
			assert.True(t, v.TotalDebit.LessThanOrEqual(v.Amount))
			finder.AssertExpectations(t)
		})
	}
}

func TestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		balance    string
		amount     string
		recipients []string
		found      int
		want       *transfer.Error
	}{
		{"negative amount", "10", "-1", sampleINNs[:2], 2, transfer.ErrInvalidAmount},
		{"zero amount", "10", "0", sampleINNs[:2], 2, transfer.ErrInvalidAmount},
		{"three decimals", "10", "1.999", sampleINNs[:2], 2, transfer.ErrInvalidAmount},
		{"too many digits", "10", "10000000000", sampleINNs[:2], 2, transfer.ErrInvalidAmount},
		{"empty recipients", "10", "1", nil, 0, transfer.ErrEmptyRecipients},
		{"duplicates", "10", "1", []string{sampleINNs[0], sampleINNs[1], sampleINNs[0]}, 2, transfer.ErrDuplicateRecipient},
		{"malformed", "10", "1", []string{"1", "2", "3"}, 0, transfer.ErrInvalidIdentifier},
		{"bad checksum", "10", "1", []string{"089931674168"}, 0, transfer.ErrInvalidIdentifier},
		{"unknown recipient", "10", "1", sampleINNs[:3], 2, transfer.ErrUnknownRecipient},
		{"over balance", "10", "10.01", sampleINNs[:2], 2, transfer.ErrInsufficientFunds},
		{"split too small", "10", "0.10", sampleINNs, 15, transfer.ErrSplitTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(mockFinder)
			finder.On("GetManyByINN", mock.Anything, mock.Anything).
				Return(accountsFor(t, tt.recipients[:tt.found]), nil).Maybe()

			sender := newAccount(t, senderINN, tt.balance)
			v, err := transfer.NewValidator(finder).Validate(
				context.Background(), sender, tt.recipients, decimal.RequireFromString(tt.amount))
			require.Error(t, err)
			assert.Nil(t, v)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.want.Kind, transfer.KindOf(err))
			assert.True(t, sender.Balance.Equal(decimal.RequireFromString(tt.balance)))
		})
	}
}

func TestValidator_ChecksBeforeLookup(t *testing.T) {
	finder := new(mockFinder)
	sender := newAccount(t, senderINN, "10")

	_, err := transfer.NewValidator(finder).Validate(
		context.Background(), sender, []string{"1", "2", "3"}, decimal.NewFromInt(1))
	require.ErrorIs(t, err, transfer.ErrInvalidIdentifier)
	finder.AssertNotCalled(t, "GetManyByINN", mock.Anything, mock.Anything)
}

func TestValidator_StorageFailure(t *testing.T) {
	finder := new(mockFinder)
	boom := errors.New("connection reset")
	finder.On("GetManyByINN", mock.Anything, mock.Anything).Return(nil, boom)

	sender := newAccount(t, senderINN, "10")
	_, err := transfer.NewValidator(finder).Validate(
		context.Background(), sender, sampleINNs[:2], decimal.NewFromInt(1))
	require.ErrorIs(t, err, transfer.ErrStorageFailure)
	assert.ErrorIs(t, err, boom)
}

func TestValidator_NilSender(t *testing.T) {
	_, err := transfer.NewValidator(new(mockFinder)).Validate(
		context.Background(), nil, sampleINNs[:1], decimal.NewFromInt(1))
	require.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestError_Is(t *testing.T) {
	err := &transfer.Error{Kind: transfer.KindSplitTooSmall, Field: "amount", Message: "x"}
	assert.ErrorIs(t, err, transfer.ErrSplitTooSmall)
	assert.NotErrorIs(t, err, transfer.ErrInvalidAmount)
	assert.Equal(t, transfer.Kind(""), transfer.KindOf(errors.New("plain")))
}
