package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want bool
	}{
		{"USD", true},
		{"EUR", true},
		{"INR", true},
		{"usd", false},
		{"XYZ", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsValid(tt.code))
		})
	}
}

func TestSupportedCurrencyCodes(t *testing.T) {
	t.Parallel()

	codes := SupportedCurrencyCodes()
	assert.Len(t, codes, len(SupportedCurrencies()))
	assert.Contains(t, codes, string(DefaultCurrency))
	for _, code := range codes {
		assert.True(t, IsValid(code))
	}
}
