// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	addr, err := mail.ParseAddress(e)
	if err != nil {
		return ErrEmailInvalid
	}

	// ParseAddress accepts "Name <a@b.c>", only the bare address is allowed
	if addr.Address != e || !strings.Contains(e, "@") {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail trims whitespace and lowercases the address so that every
// ledger keyed by email agrees on one spelling
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
