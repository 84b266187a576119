// Package security contains everything related to the security of user data
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every stored password
const PasswordCost = 10

type Hasher struct {
	Cost int
}

func New() *Hasher {
	return &Hasher{Cost: PasswordCost}
}

func (h *Hasher) GenerateFromPassword(p string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(p), h.Cost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// VerifyPasswd compares a password p with the stored bcrypt hash e. A mismatch
// is not an error, a malformed hash is.
func (h *Hasher) VerifyPasswd(p, e string) (ok bool, err error) {
	err = bcrypt.CompareHashAndPassword([]byte(e), []byte(p))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}
