package auth

import (
	"context"
	"time"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/security"
	"protofolio/backend/pkg/validators"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Logout revokes refreshToken if it is the one stored for email
func (s *Service) Logout(ctx context.Context, email, refreshToken string) error {
	if refreshToken == "" {
		return fail(BadRequest, "No refresh token provided")
	}

	email = validators.NormalizeEmail(email)

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return internal("Failed to load user", err)
	}

	if u == nil {
		return fail(NotFound, "Invalid email")
	}

	if u.RefreshTokenHash == nil || !security.TokenMatches(refreshToken, *u.RefreshTokenHash) {
		return fail(Unauthorized, "Invalid email")
	}

	if err := s.revoke(ctx, refreshToken, u.ID); err != nil {
		return err
	}

	if err := s.store.UpdateUser(ctx, email, map[string]any{"refresh_token_hash": nil}); err != nil {
		return internal("Failed to clear refresh token", err)
	}

	return nil
}

// revoke blacklists raw until its own expiry, after which it can't verify anyway
func (s *Service) revoke(ctx context.Context, raw, userID string) error {
	expiresAt := s.expiryOf(raw)

	err := s.store.BlacklistToken(ctx, &model.BlacklistEntry{
		Token:     raw,
		UserID:    &userID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return internal("Failed to revoke refresh token", err)
	}

	if s.cache != nil {
		if err := s.cache.Add(ctx, raw, expiresAt.Sub(s.clock())); err != nil {
			zap.L().Warn("Failed to mirror revoked token to cache", zap.Error(err))
		}
	}

	return nil
}

// expiryOf reads exp from a token already known to be ours. Tokens without a
// readable exp are kept for a full refresh lifetime.
func (s *Service) expiryOf(raw string) time.Time {
	var claims Claims

	_, _, err := jwt.NewParser().ParseUnverified(raw, &claims)
	if err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.UTC()
	}

	return s.clock().Add(s.cfg.RefreshTTL)
}

func (s *Service) blacklisted(ctx context.Context, raw string) (bool, error) {
	if s.cache != nil {
		hit, err := s.cache.Contains(ctx, raw)
		if err != nil {
			zap.L().Warn("Failed to query token cache", zap.Error(err))
		} else if hit {
			return true, nil
		}
	}

	return s.store.IsBlacklisted(ctx, raw)
}
