package validators

import "errors"

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
	ErrPasswordEmpty    = errors.New("no password provided")
)

// bcrypt ignores everything past 72 bytes
const maxPasswordLen = 72

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) < 8 {
		return ErrPasswordTooShort
	}

	if len(p) > maxPasswordLen {
		return ErrPasswordTooLong
	}

	return nil
}
