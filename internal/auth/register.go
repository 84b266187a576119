package auth

import (
	"context"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/security"
	"protofolio/backend/pkg/validators"

	"go.uber.org/zap"
)

// RequestEmailVerification mails a fresh six digit code to email. A pending
// code for the same address is replaced.
func (s *Service) RequestEmailVerification(ctx context.Context, email, ip string) error {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return fail(BadRequest, "Email field can't be empty")
	}

	if err := s.checkLock(ctx, email, ip, model.AttemptVerification); err != nil {
		return err
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return internal("Failed to check if user is registered", err)
	}

	if u != nil {
		return fail(Conflict, "This email is already registered. Please login or use a different email")
	}

	code, err := security.MakeVerificationCode()
	if err != nil {
		return internal("Failed to generate verification code", err)
	}

	expiresAt := s.clock().Add(verificationTTL)

	if err := s.mailer.SendVerificationCode(ctx, email, code, expiresAt); err != nil {
		return &Error{Kind: Unavailable, Msg: "Failed to send verification email", Err: err}
	}

	err = s.store.UpsertVerification(ctx, &model.VerificationRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return internal("Failed to save verification code", err)
	}

	zap.L().Debug("Verification code sent", zap.String("email", email))
	return nil
}

// CompleteEmailVerification checks code against the pending record and
// creates the unverified account with its cart
func (s *Service) CompleteEmailVerification(ctx context.Context, email, code, ip string) error {
	email = validators.NormalizeEmail(email)
	if email == "" || code == "" {
		return fail(BadRequest, "Email and code are required")
	}

	if err := s.checkLock(ctx, email, ip, model.AttemptVerification); err != nil {
		return err
	}

	rec, err := s.store.VerificationByEmail(ctx, email)
	if err != nil {
		return internal("Failed to load verification code", err)
	}

	if rec == nil {
		return fail(NotFound, "Invalid email or code")
	}

	if expired(s.clock(), rec.ExpiresAt) {
		return fail(Invalid, "Invalid email or code")
	}

	if rec.Code != code {
		if err := s.recordFailure(ctx, email, ip, model.AttemptVerification); err != nil {
			return err
		}

		return fail(Invalid, "Invalid email or code")
	}

	if err := s.clearFailures(ctx, email, ip, model.AttemptVerification); err != nil {
		return err
	}

	if err := s.store.DeleteVerification(ctx, email); err != nil {
		return internal("Failed to delete verification code", err)
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return internal("Failed to check if user is registered", err)
	}

	if existing != nil {
		return fail(Conflict, "This email is already registered. Please login or use a different email")
	}

	err = s.store.CreateUserWithCart(ctx, &model.User{
		Email:    email,
		Provider: model.ProviderLocal,
		Role:     model.RoleUser,
		Verified: false,
	})
	if err != nil {
		return internal("Failed to create user", err)
	}

	return nil
}

// FinishRegistration sets the password of a freshly verified address, marks
// the account verified and signs the user in
func (s *Service) FinishRegistration(ctx context.Context, email, password string) (*Tokens, error) {
	email = validators.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fail(BadRequest, "Email and password are required")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, internal("Failed to load user", err)
	}

	if u == nil {
		return nil, fail(NotFound, "Invalid email")
	}

	if u.Verified {
		return nil, fail(Invalid, "Invalid email")
	}

	hash, err := s.hasher.GenerateFromPassword(password)
	if err != nil {
		return nil, internal("Failed to hash password", err)
	}

	err = s.store.UpdateUser(ctx, email, map[string]any{
		"password_hash": hash,
		"verified":      true,
	})
	if err != nil {
		return nil, internal("Failed to update user", err)
	}

	u.PasswordHash = &hash
	u.Verified = true

	return s.issueTokens(ctx, u)
}
