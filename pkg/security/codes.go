package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"protofolio/backend/pkg/util"
)

const (
	codeSpace      = 1_000_000
	resetTokenSize = 32
)

// MakeVerificationCode returns a uniformly random six digit, zero padded code
func MakeVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

// MakeResetToken returns an unpredictable 64 character password reset token
func MakeResetToken() (string, error) {
	return util.GenerateToken(resetTokenSize)
}
