package inn_test

import (
	"testing"

	"github.com/amirasaad/splitpay/pkg/domain/inn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	valid := []string{
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
		"031473063921",
	}
	for _, v := range valid {
		t.Run(v, func(t *testing.T) {
			require.NoError(t, inn.Validate(v))
			assert.True(t, inn.IsValid(v))
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{"empty", "", inn.ErrInvalidFormat},
		{"single digit", "1", inn.ErrInvalidFormat},
		{"too long", "42317441116711", inn.ErrInvalidFormat},
		{"letters", "08993167416a", inn.ErrInvalidFormat},
		{"plus sign", "+89931674169", inn.ErrInvalidFormat},
		{"non ascii digits", "０８９９３１６７４１", inn.ErrInvalidFormat},
		{"first check digit wrong", "009931674169", inn.ErrChecksum},
		{"second check digit wrong", "423174411168", inn.ErrChecksum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := inn.Validate(tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, inn.ErrInvalid)
			assert.False(t, inn.IsValid(tt.value))
		})
	}
}

// FuzzValidate checks that Validate never panics and only accepts 12-digit strings.
func FuzzValidate(f *testing.F) {
	f.Add("089931674169")
	f.Add("000000000000")
	f.Add("")
	f.Add("42317441116711")
	f.Fuzz(func(t *testing.T, s string) {
		if err := inn.Validate(s); err == nil {
			if len(s) != inn.Length {
				t.Errorf("accepted INN of length %d: %q", len(s), s)
			}
			for _, c := range s {
				if c < '0' || c > '9' {
					t.Errorf("accepted INN with non-digit %q", s)
				}
			}
			if inn.Validate(s) != nil {
				t.Errorf("Validate is not deterministic for %q", s)
			}
		}
	})
}
