package security

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherRoundTrip(t *testing.T) {
	h := &Hasher{Cost: 4}

	hash, err := h.GenerateFromPassword("Secret123")
	require.NoError(t, err)

	ok, err := h.VerifyPasswd("Secret123", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.VerifyPasswd("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasherMalformedHash(t *testing.T) {
	_, err := New().VerifyPasswd("Secret123", "not-a-hash")
	assert.Error(t, err)
}

func TestNewUsesCostTen(t *testing.T) {
	assert.Equal(t, 10, New().Cost)
}

func TestTokenMatches(t *testing.T) {
	d := DigestToken("raw-token")

	assert.Len(t, d, 64)
	assert.True(t, TokenMatches("raw-token", d))
	assert.False(t, TokenMatches("other", d))
	assert.False(t, TokenMatches("", d))
	assert.False(t, TokenMatches("raw-token", ""))
}

func TestMakeVerificationCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)

	for range 200 {
		code, err := MakeVerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestMakeResetTokenIsUnique(t *testing.T) {
	a, err := MakeResetToken()
	require.NoError(t, err)
	b, err := MakeResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
