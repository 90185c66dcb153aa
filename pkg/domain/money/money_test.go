package money_test

import (
	"testing"

	"github.com/amirasaad/splitpay/pkg/domain/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2.999", "2.99"},
		{"0.0875", "0.08"},
		{"0.00666", "0.00"},
		{"6", "6.00"},
		{"66666666.666666", "66666666.66"},
		{"-2.999", "-2.99"},
		{"0.01", "0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := money.Round(d(tt.in))
			assert.True(t, d(tt.want).Equal(got), "Round(%s) = %s, want %s", tt.in, got, tt.want)
		})
	}
}

func TestShare(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  string
	}{
		{"0.70 over 8", "0.70", 8, "0.08"},
		{"0.70 over 6", "0.70", 6, "0.11"},
		{"60 over 10", "60", 10, "6.00"},
		{"10 over 9", "10", 9, "1.11"},
		{"15 over 16", "15", 16, "0.93"},
		{"0.15 over 15", "0.15", 15, "0.01"},
		{"0.10 over 15", "0.10", 15, "0.00"},
		{"1e9 over 15", "1000000000", 15, "66666666.66"},
		{"zero recipients", "10", 0, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.Share(d(tt.total), tt.n)
			assert.True(t, d(tt.want).Equal(got), "Share(%s, %d) = %s, want %s", tt.total, tt.n, got, tt.want)
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{"plain", "0.70", "0.70", nil},
		{"integer", "60", "60", nil},
		{"trailing zeros", "1.500", "1.5", nil},
		{"spaces", " 10.25 ", "10.25", nil},
		{"max", "9999999999.99", "9999999999.99", nil},
		{"negative", "-1", "", money.ErrAmountMustBePositive},
		{"zero", "0", "", money.ErrAmountMustBePositive},
		{"three decimals", "1.999", "", money.ErrTooManyDecimals},
		{"eleven integer digits", "10000000000", "", money.ErrTooManyDigits},
		{"garbage", "ten", "", money.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got))
		})
	}
}

func TestParseBalance(t *testing.T) {
	got, err := money.ParseBalance("0")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = money.ParseBalance("12.50")
	require.NoError(t, err)
	assert.True(t, d("12.5").Equal(got))

	_, err = money.ParseBalance("-0.01")
	require.ErrorIs(t, err, money.ErrNegativeAmount)
	_, err = money.ParseBalance("1.999")
	require.ErrorIs(t, err, money.ErrTooManyDecimals)
	_, err = money.ParseBalance("abc")
	require.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestValidatePrecision_AllowsZero(t *testing.T) {
	require.NoError(t, money.ValidatePrecision(decimal.Zero))
	require.ErrorIs(t, money.ValidateAmount(decimal.Zero), money.ErrAmountMustBePositive)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "6.00", money.Format(d("6")))
	assert.Equal(t, "0.08", money.Format(d("0.0875")))
	assert.Equal(t, "0.01", money.Format(money.MinUnit))
}
