package auth

import (
	"errors"
	"fmt"
	"time"

	"protofolio/backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"

	// Lifetime of access tokens minted by a refresh, independent of jwt.access_ttl
	refreshedAccessTTL = 15 * time.Minute
)

var ErrTokenType = errors.New("unexpected token type")

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// Tokens is the pair handed to a client after a successful sign-in. Only a
// digest of RefreshToken is ever persisted.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// Signer issues and verifies HS256 tokens bound to one issuer
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewSigner(secret, issuer string, now func() time.Time) *Signer {
	if now == nil {
		now = time.Now
	}

	return &Signer{
		secret: []byte(secret),
		issuer: issuer,
		now:    now,
	}
}

// Sign returns a token of type typ for u together with its expiry
func (s *Signer) Sign(u *model.User, typ string, ttl time.Duration) (string, time.Time, error) {
	iat := s.now().UTC().Truncate(time.Second)
	exp := iat.Add(ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: u.Email,
		Role:     u.Role,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	})

	raw, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign %s token, %w", typ, err)
	}

	return raw, exp, nil
}

// Verify checks the signature, issuer, expiry and type of raw
func (s *Signer) Verify(raw, typ string) (*Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	if claims.Type != typ {
		return nil, ErrTokenType
	}

	return &claims, nil
}
