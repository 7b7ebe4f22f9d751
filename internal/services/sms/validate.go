package sms

import (
	"strings"

	"pbsms/internal/domain"
)

const (
	minPhoneLen = 7  // "+" and 6 digits
	maxPhoneLen = 16 // "+" and 15 digits
)

// ValidateRecipient checks the destination and body before any I/O. The
// first failing check wins.
func ValidateRecipient(phone, message string) error {
	switch {
	case strings.TrimSpace(phone) == "":
		return &domain.InputError{Field: "phone number", Reason: "cannot be empty"}
	case strings.TrimSpace(message) == "":
		return &domain.InputError{Field: "message", Reason: "cannot be empty"}
	case !strings.HasPrefix(phone, "+"):
		return &domain.InputError{Field: "phone number", Reason: "must be in international format (e.g., +1234567890)"}
	case !allDigits(phone[1:]):
		return &domain.InputError{Field: "phone number", Reason: "must contain only digits after the + sign"}
	case len(phone) < minPhoneLen || len(phone) > maxPhoneLen:
		return &domain.InputError{Field: "phone number", Reason: "must be between 6 and 15 digits (inclusive)"}
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseAPIKeyArg recognises an "APIKey=<value>" argument (key name is
// case-insensitive) and returns the trimmed value.
func ParseAPIKeyArg(arg string) (string, bool) {
	const prefix = "APIKey="
	if len(arg) < len(prefix) || !strings.EqualFold(arg[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(arg[len(prefix):]), true
}

// IsRemoveKeyword reports whether value asks for the stored key to be removed.
func IsRemoveKeyword(value string) bool {
	return strings.EqualFold(value, "remove")
}
