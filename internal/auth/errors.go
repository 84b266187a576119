package auth

import (
	"errors"
	"fmt"
	"time"
)

type Kind int

const (
	Internal Kind = iota
	BadRequest
	Conflict
	Invalid
	NotFound
	Unauthorized
	RateLimited
	Unavailable
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Conflict:
		return "conflict"
	case Invalid:
		return "invalid"
	case NotFound:
		return "not_found"
	case Unauthorized:
		return "unauthorized"
	case RateLimited:
		return "rate_limited"
	case Unavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is returned by every Service operation. Msg is safe to show to the
// client, Err is the cause and is only ever logged.
type Error struct {
	Kind Kind
	Msg  string
	// Set for RateLimited, how long until the lock elapses
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s, %v", e.Kind, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf classifies err. Anything that isn't an *Error is Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return Internal
}

func fail(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

func internal(msg string, err error) *Error {
	return &Error{Kind: Internal, Msg: msg, Err: err}
}
