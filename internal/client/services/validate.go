package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minFullNameLen = 2
	minPasswordLen = 6
	otpLen         = 6
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return nil
}

func validateFullName(name string) error {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < minFullNameLen {
		return fmt.Errorf("%w: full name must be at least %d characters", ErrValidation, minFullNameLen)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	return nil
}

func validateConfirm(password, confirm string) error {
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

// SanitizeOtp strips everything but digits from raw user input. OTP fields
// sanitize rather than reject, so "12a3456" becomes "123456".
func SanitizeOtp(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// validateOtp expects an already sanitized code.
func validateOtp(otp string) error {
	if len(otp) != otpLen {
		return fmt.Errorf("%w: OTP must be exactly %d digits", ErrValidation, otpLen)
	}
	return nil
}
