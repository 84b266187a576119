package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailValidator(t *testing.T) {
	cases := map[string]error{
		"":                 ErrEmailEmpty,
		"a@x.com":          nil,
		"not-an-email":     ErrEmailInvalid,
		"Name <a@x.com>":   ErrEmailInvalid,
		"first.last@x.org": nil,
	}

	for in, want := range cases {
		assert.ErrorIs(t, EmailValidator(in), want, "input %q", in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

func TestPasswordValidator(t *testing.T) {
	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 73)), ErrPasswordTooLong)
	assert.NoError(t, PasswordValidator("Secret123"))
}
