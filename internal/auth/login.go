package auth

import (
	"context"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/validators"
)

// Login checks the lockout for (email, ip) first. Every credential failure
// except an unverified account counts towards the lock.
func (s *Service) Login(ctx context.Context, email, password, ip string) (*Tokens, error) {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return nil, fail(BadRequest, "Email field can't be empty")
	}

	if err := s.checkLock(ctx, email, ip, model.AttemptLogin); err != nil {
		return nil, err
	}

	badCredentials := func(k Kind) (*Tokens, error) {
		if err := s.recordFailure(ctx, email, ip, model.AttemptLogin); err != nil {
			return nil, err
		}

		return nil, fail(k, "Invalid email or password")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, internal("Failed to load user", err)
	}

	if u == nil || u.PasswordHash == nil || password == "" {
		return badCredentials(NotFound)
	}

	if !u.Verified {
		return nil, fail(Unauthorized, "Invalid email or password")
	}

	ok, err := s.hasher.VerifyPasswd(password, *u.PasswordHash)
	if err != nil {
		return nil, internal("Failed to verify password", err)
	}

	if !ok {
		return badCredentials(Invalid)
	}

	if err := s.clearFailures(ctx, email, ip, model.AttemptLogin); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, u)
}
