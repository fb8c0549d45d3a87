package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number is neither a 7 digit local nor a 10 digit national number
	ErrInvalidLength = errors.New("phone number must be 7 digits or 10 digits including the 242 area code")

	// ErrInvalidAreaCode indicates a 10 digit number outside the Bahamas area code
	ErrInvalidAreaCode = errors.New("phone number must use the Bahamas area code 242")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// BahamasAreaCode is the NANP area code for the whole archipelago
const BahamasAreaCode = "242"

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles Bahamas phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a Bahamas phone number.
// Accepts 322-1234, (242) 322-1234, 242.322.1234 or +1 242 322 1234.
// Returns the 10 digit national number and an error if invalid.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	switch len(sanitized) {
	case 7:
		sanitized = BahamasAreaCode + sanitized
	case 10:
	default:
		return "", ErrInvalidLength
	}

	if !strings.HasPrefix(sanitized, BahamasAreaCode) {
		return "", ErrInvalidAreaCode
	}

	return sanitized, nil
}

// Sanitize removes separators and the +1 country code
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "", ".", "").Replace(phone)

	if strings.HasPrefix(phone, "1") && len(phone) == 11 {
		phone = phone[1:]
	}

	return phone
}

// Format formats a phone number for display: (242) XXX-XXXX
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("(%s) %s-%s", sanitized[0:3], sanitized[3:6], sanitized[6:10]), nil
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
