package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"2423221234", "2423221234", "National format"},
		{"242 322 1234", "2423221234", "With spaces"},
		{"242-322-1234", "2423221234", "With dashes"},
		{"242.322.1234", "2423221234", "With dots"},
		{"(242) 322-1234", "2423221234", "With parentheses"},
		{"+1 242 322 1234", "2423221234", "With country code"},
		{"12423221234", "2423221234", "Country code without plus"},
		{"322-1234", "2423221234", "Local number"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyPhone, "Empty string"},
		{"   ", ErrEmptyPhone, "Whitespace only"},
		{"123", ErrInvalidLength, "Too short"},
		{"242322123456", ErrInvalidLength, "Too long"},
		{"3053221234", ErrInvalidAreaCode, "Miami area code"},
		{"242322123a", ErrInvalidFormat, "Contains letters"},
		{"242#3221234", ErrInvalidFormat, "Contains symbols"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Empty(t, sanitized)
		})
	}
}

func TestFormat(t *testing.T) {
	validator := NewPhoneValidator()

	formatted, err := validator.Format("+1-242-322-1234")
	require.NoError(t, err)
	assert.Equal(t, "(242) 322-1234", formatted)

	_, err = validator.Format("555")
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()

	assert.True(t, validator.IsValid("242-502-0000"))
	assert.False(t, validator.IsValid("0771234567"))
}
