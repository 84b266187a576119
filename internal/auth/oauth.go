package auth

import (
	"context"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/validators"
)

// Profile is an identity asserted by an external provider. Emails only holds
// addresses the provider has verified.
type Profile struct {
	ID          string
	Emails      []string
	DisplayName string
	Photos      []string
	Provider    string
}

// UserView is the public projection of a user
type UserView struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
	Role  string  `json:"role"`
}

func ViewOf(u *model.User) UserView {
	return UserView{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Photo: u.Photo,
		Role:  u.Role,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// ValidateOAuthIdentity signs in the owner of p, creating the account on first
// sight or linking it to an existing verified local account
func (s *Service) ValidateOAuthIdentity(ctx context.Context, p Profile) (*UserView, *Tokens, error) {
	if len(p.Emails) == 0 || p.Emails[0] == "" {
		return nil, nil, fail(BadRequest, "Invalid email")
	}

	// Without a subject there is nothing to link the account to
	if p.ID == "" {
		return nil, nil, fail(BadRequest, "Invalid identity")
	}

	email := validators.NormalizeEmail(p.Emails[0])

	var photo string
	if len(p.Photos) > 0 {
		photo = p.Photos[0]
	}

	provider := p.Provider
	if provider == "" {
		provider = model.ProviderGoogle
	}

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, nil, internal("Failed to load user", err)
	}

	switch {
	case u == nil:
		u = &model.User{
			Email:    email,
			Name:     optional(p.DisplayName),
			Photo:    optional(photo),
			GoogleID: optional(p.ID),
			Provider: provider,
			Role:     model.RoleUser,
			Verified: true,
		}

		if err := s.store.CreateUserWithCart(ctx, u); err != nil {
			return nil, nil, internal("Failed to create user", err)
		}
	case u.GoogleID == nil:
		// An unverified account may be a registration someone else started
		if !u.Verified {
			return nil, nil, fail(Unauthorized, "Invalid email")
		}

		fields := map[string]any{
			"google_id": p.ID,
			"provider":  provider,
			"verified":  true,
			"photo":     optional(photo),
			"name":      optional(p.DisplayName),
		}
		if err := s.store.UpdateUser(ctx, email, fields); err != nil {
			return nil, nil, internal("Failed to link account", err)
		}

		u.GoogleID = optional(p.ID)
		u.Provider = provider
		u.Photo = optional(photo)
		u.Name = optional(p.DisplayName)
	}

	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	view := ViewOf(u)
	return &view, tokens, nil
}
