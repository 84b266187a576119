package auth

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, NotFound, KindOf(fail(NotFound, "Invalid email")))

	wrapped := fmt.Errorf("handler: %w", lockedErr(90*time.Second))
	assert.Equal(t, RateLimited, KindOf(wrapped))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := internal("Failed to create user", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "internal", err.Kind.String())
}

func TestLockedErrRoundsUp(t *testing.T) {
	err := lockedErr(90 * time.Second)
	assert.Contains(t, err.Msg, "2 minute")
	assert.Equal(t, 90*time.Second, err.RetryAfter)
}
