package services

import (
	"net/mail"
	"strings"

	"pantrypal-backend/internal/apperr"
)

const minPasswordLen = 6

// Explicit input validation, run before any mutation is attempted.

func ValidateRegistration(email, username, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" {
		return apperr.Validation("Username is required")
	}
	return ValidateNewPassword(password)
}

func ValidateLogin(email, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return apperr.Validation("Password is required")
	}
	return nil
}

func ValidateNewPassword(password string) error {
	if len(password) < minPasswordLen {
		return apperr.Validation("Password must be at least 6 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperr.Validation("Email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperr.Validation("Email is not valid")
	}
	return nil
}
