// Package auth implements the account lifecycle: email verification, local
// registration, login with lockout, password reset, Google sign-in and
// refresh token handling.
package auth

import (
	"context"
	"time"

	"protofolio/backend/config"
	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/security"
)

const (
	verificationTTL  = 15 * time.Minute
	passwordResetTTL = time.Hour
)

// Store is the persistence the service needs. Lookups return (nil, nil) when
// nothing matches.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	CreateUserWithCart(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, email string, fields map[string]any) error

	VerificationByEmail(ctx context.Context, email string) (*model.VerificationRecord, error)
	UpsertVerification(ctx context.Context, rec *model.VerificationRecord) error
	DeleteVerification(ctx context.Context, email string) error

	FailedAttempt(ctx context.Context, email, ip string, t model.AttemptType) (*model.FailedAttempt, error)
	IncrementFailedAttempt(ctx context.Context, email, ip string, t model.AttemptType, at time.Time) (int, error)
	LockFailedAttempt(ctx context.Context, email, ip string, t model.AttemptType, until time.Time) error
	ClearFailedAttempts(ctx context.Context, email, ip string, t model.AttemptType, at time.Time) error

	DeletePasswordResets(ctx context.Context, email string) error
	CreatePasswordReset(ctx context.Context, rec *model.PasswordReset) error
	PasswordReset(ctx context.Context, email, token string) (*model.PasswordReset, error)
	MarkPasswordResetUsed(ctx context.Context, email, token string) error

	BlacklistToken(ctx context.Context, e *model.BlacklistEntry) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// Mailer delivers codes and reset tokens. Delivery happens inside the request.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string, expiresAt time.Time) error
	SendPasswordReset(ctx context.Context, to, token string, expiresAt time.Time) error
}

// BlacklistCache mirrors revoked tokens somewhere faster than the database.
// The database stays authoritative.
type BlacklistCache interface {
	Add(ctx context.Context, token string, ttl time.Duration) error
	Contains(ctx context.Context, token string) (bool, error)
}

type Service struct {
	cfg    *config.JWT
	store  Store
	mailer Mailer
	cache  BlacklistCache
	hasher *security.Hasher
	signer *Signer
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithBlacklistCache(c BlacklistCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithHasher(h *security.Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

func New(cfg *config.JWT, st Store, mailer Mailer, opts ...Option) *Service {
	s := &Service{
		cfg:    cfg,
		store:  st,
		mailer: mailer,
		hasher: security.New(),
		now:    time.Now,
	}

	for _, o := range opts {
		o(s)
	}

	s.signer = NewSigner(cfg.Secret, cfg.Issuer, s.clock)
	return s
}

// Signer exposes the token signer so the bearer middleware verifies with the
// same key and issuer
func (s *Service) Signer() *Signer {
	return s.signer
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// expired treats the exact expiry instant as already expired
func expired(now, expiresAt time.Time) bool {
	return !now.Before(expiresAt)
}

// issueTokens signs a fresh pair for u and stores the refresh token digest
func (s *Service) issueTokens(ctx context.Context, u *model.User) (*Tokens, error) {
	access, _, err := s.signer.Sign(u, TokenAccess, s.cfg.AccessTTL)
	if err != nil {
		return nil, internal("Failed to issue tokens", err)
	}

	refresh, _, err := s.signer.Sign(u, TokenRefresh, s.cfg.RefreshTTL)
	if err != nil {
		return nil, internal("Failed to issue tokens", err)
	}

	digest := security.DigestToken(refresh)
	if err := s.store.UpdateUser(ctx, u.Email, map[string]any{"refresh_token_hash": digest}); err != nil {
		return nil, internal("Failed to store refresh token", err)
	}

	u.RefreshTokenHash = &digest

	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
