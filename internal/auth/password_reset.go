package auth

import (
	"context"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/security"
	"protofolio/backend/pkg/validators"
)

// RequestPasswordReset replaces any pending reset for email with a new
// token and mails it
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return fail(BadRequest, "Email field can't be empty")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return internal("Failed to load user", err)
	}

	if u == nil {
		return fail(NotFound, "Invalid email")
	}

	if u.PasswordHash == nil {
		return fail(Invalid, "Invalid email")
	}

	if !u.Verified {
		return fail(Unauthorized, "Invalid email")
	}

	token, err := security.MakeResetToken()
	if err != nil {
		return internal("Failed to generate reset token", err)
	}

	expiresAt := s.clock().Add(passwordResetTTL)

	if err := s.store.DeletePasswordResets(ctx, email); err != nil {
		return internal("Failed to delete old reset tokens", err)
	}

	err = s.store.CreatePasswordReset(ctx, &model.PasswordReset{
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return internal("Failed to save reset token", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, email, token, expiresAt); err != nil {
		return &Error{Kind: Unavailable, Msg: "Failed to send password reset email", Err: err}
	}

	return nil
}

// ConfirmPasswordReset consumes the (email, token) pair and sets a new password.
// A wrong token for a known email is NotFound, same as an unknown email.
func (s *Service) ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) error {
	email = validators.NormalizeEmail(email)
	if email == "" || token == "" || newPassword == "" {
		return fail(BadRequest, "Email, token and new password are required")
	}

	rec, err := s.store.PasswordReset(ctx, email, token)
	if err != nil {
		return internal("Failed to load reset token", err)
	}

	if rec == nil {
		return fail(NotFound, "Invalid email or token")
	}

	if rec.Used || expired(s.clock(), rec.ExpiresAt) {
		return fail(Invalid, "Invalid email or token")
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return internal("Failed to load user", err)
	}

	if u == nil {
		return fail(NotFound, "Invalid email or token")
	}

	hash, err := s.hasher.GenerateFromPassword(newPassword)
	if err != nil {
		return internal("Failed to hash password", err)
	}

	if err := s.store.UpdateUser(ctx, email, map[string]any{"password_hash": hash}); err != nil {
		return internal("Failed to update password", err)
	}

	if err := s.store.MarkPasswordResetUsed(ctx, email, token); err != nil {
		return internal("Failed to consume reset token", err)
	}

	return nil
}
