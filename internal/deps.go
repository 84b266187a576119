package internal

import (
	"protofolio/backend/config"
	"protofolio/backend/internal/auth"
	"protofolio/backend/internal/oauth"
	"protofolio/backend/internal/store"
)

// Deps is handed to every handler
type Deps struct {
	Config *config.Config
	Store  *store.Store
	Auth   *auth.Service
	// Nil when Google sign-in is not configured
	Google *oauth.Google
}
