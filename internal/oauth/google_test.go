package oauth

import (
	"context"
	"net/url"
	"testing"

	"protofolio/backend/config"
	"protofolio/backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goauth2 "google.golang.org/api/oauth2/v2"
)

func TestProfileOf(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name       string
		info       *goauth2.Userinfo
		wantEmails []string
	}{
		{"verified", &goauth2.Userinfo{Id: "1", Email: "a@x.com", VerifiedEmail: &yes}, []string{"a@x.com"}},
		{"unverified", &goauth2.Userinfo{Id: "1", Email: "a@x.com", VerifiedEmail: &no}, nil},
		{"unknown", &goauth2.Userinfo{Id: "1", Email: "a@x.com"}, nil},
		{"no email", &goauth2.Userinfo{Id: "1", VerifiedEmail: &yes}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProfileOf(tt.info)
			assert.Equal(t, tt.wantEmails, p.Emails)
			assert.Equal(t, "1", p.ID)
			assert.Equal(t, model.ProviderGoogle, p.Provider)
		})
	}

	p := ProfileOf(&goauth2.Userinfo{Id: "2", Name: "Gina", Picture: "https://example.com/p.png"})
	assert.Equal(t, "Gina", p.DisplayName)
	assert.Equal(t, []string{"https://example.com/p.png"}, p.Photos)
}

func TestAuthCodeURL(t *testing.T) {
	g := NewGoogle(&config.Google{
		ClientID:     "client",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost:8080/api/auth/callback/google",
	})

	state, err := NewState()
	require.NoError(t, err)
	assert.Len(t, state, 32)

	u, err := url.Parse(g.AuthCodeURL(state))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, state, q.Get("state"))
	assert.Equal(t, "http://localhost:8080/api/auth/callback/google", q.Get("redirect_uri"))
	assert.Contains(t, q.Get("scope"), "userinfo.email")
}

func TestExchangeWithoutCode(t *testing.T) {
	g := NewGoogle(&config.Google{ClientID: "client"})

	_, err := g.Exchange(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCode)
}
