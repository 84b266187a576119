package auth

import (
	"context"
	"slices"

	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/validators"
)

var roles = []string{model.RoleUser, model.RoleAdmin}

// ValidRole reports whether r can be assigned to a user
func ValidRole(r string) bool {
	return slices.Contains(roles, r)
}

// NewAccount is a local account created by an administrator
type NewAccount struct {
	Email    string
	Password string
	Name     string
	Role     string
	Verified bool
}

// CreateAccount creates a local account with its cart, skipping email
// verification. An empty role means RoleUser.
func (s *Service) CreateAccount(ctx context.Context, a NewAccount) (*model.User, error) {
	email := validators.NormalizeEmail(a.Email)
	if email == "" || a.Password == "" {
		return nil, fail(BadRequest, "Email and password are required")
	}

	if a.Role == "" {
		a.Role = model.RoleUser
	}

	if !ValidRole(a.Role) {
		return nil, fail(BadRequest, "Invalid role")
	}

	existing, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return nil, internal("Failed to check if user is registered", err)
	}

	if existing != nil {
		return nil, fail(Conflict, "This email is already registered")
	}

	hash, err := s.hasher.GenerateFromPassword(a.Password)
	if err != nil {
		return nil, internal("Failed to hash password", err)
	}

	u := &model.User{
		Email:        email,
		Name:         optional(a.Name),
		PasswordHash: &hash,
		Provider:     model.ProviderLocal,
		Role:         a.Role,
		Verified:     a.Verified,
	}

	if err := s.store.CreateUserWithCart(ctx, u); err != nil {
		return nil, internal("Failed to create user", err)
	}

	return u, nil
}
