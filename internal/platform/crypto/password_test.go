package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"mixed with symbol", "Str0ng#Pass", nil},
		{"exactly eight", "Abcdef1!", nil},
		{"seven characters", "Abcde1!", ErrPasswordTooShort},
		{"empty", "", ErrPasswordTooShort},
		{"no upper", "lowercase1!", ErrPasswordNoUpper},
		{"no lower", "UPPERCASE1!", ErrPasswordNoLower},
		{"no digit", "NoDigits!!", ErrPasswordNoNumber},
		{"no symbol", "NoSymbol123", ErrPasswordNoSpecialChar},
		{"first failing rule wins", "short", ErrPasswordTooShort},
		{"upper checked before digit", "nodigitsorupper!", ErrPasswordNoUpper},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, ValidatePasswordStrength(tt.password), tt.want)
		})
	}
}

func TestValidatePasswordStrength_AcceptsAnySymbolClass(t *testing.T) {
	for _, symbol := range []string{"!", "@", "#", "$", "%", "^", "&", "*", "(", "_", "-", "=", "[", ";", "'", ":", "\"", "|", ",", ".", "<", "/", "?"} {
		assert.NoError(t, ValidatePasswordStrength("Member12"+symbol), symbol)
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Borrow3r!")
	require.NoError(t, err)
	assert.NotEqual(t, "Borrow3r!", hash)

	assert.True(t, VerifyPassword(hash, "Borrow3r!"))
	assert.False(t, VerifyPassword(hash, "borrow3r!"))
	assert.False(t, VerifyPassword("not-a-hash", "Borrow3r!"))

	again, err := HashPassword("Borrow3r!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "bcrypt salts each hash")
}
