package auth

import (
	"context"

	"protofolio/backend/pkg/security"
	"protofolio/backend/pkg/validators"

	"go.uber.org/zap"
)

// RefreshAccessToken trades a valid refresh token for a new access token and
// burns the refresh token. With jwt.rotate_refresh set the result also carries
// a replacement refresh token.
func (s *Service) RefreshAccessToken(ctx context.Context, email, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, fail(Unauthorized, "Invalid email")
	}

	if _, err := s.signer.Verify(refreshToken, TokenRefresh); err != nil {
		zap.L().Debug("Rejected refresh token", zap.Error(err))
		return nil, fail(Unauthorized, "Invalid email")
	}

	revoked, err := s.blacklisted(ctx, refreshToken)
	if err != nil {
		return nil, internal("Failed to check token blacklist", err)
	}

	if revoked {
		return nil, fail(Unauthorized, "Invalid email")
	}

	email = validators.NormalizeEmail(email)

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, internal("Failed to load user", err)
	}

	if u == nil {
		return nil, fail(NotFound, "Invalid email")
	}

	if !u.Verified || u.RefreshTokenHash == nil || !security.TokenMatches(refreshToken, *u.RefreshTokenHash) {
		return nil, fail(Unauthorized, "Invalid email")
	}

	var out *Tokens

	if s.cfg.RotateRefresh {
		out, err = s.issueTokens(ctx, u)
		if err != nil {
			return nil, err
		}
	} else {
		access, _, err := s.signer.Sign(u, TokenAccess, refreshedAccessTTL)
		if err != nil {
			return nil, internal("Failed to issue tokens", err)
		}

		out = &Tokens{AccessToken: access}
	}

	if err := s.revoke(ctx, refreshToken, u.ID); err != nil {
		return nil, err
	}

	return out, nil
}
