// Package oauth handles the Google authorization code flow
package oauth

import (
	"context"
	"errors"
	"fmt"

	"protofolio/backend/config"
	"protofolio/backend/internal/auth"
	"protofolio/backend/internal/model"
	"protofolio/backend/pkg/util"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var ErrNoCode = errors.New("no authorization code provided")

type Google struct {
	conf *oauth2.Config
}

func NewGoogle(c *config.Google) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.CallbackURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				goauth2.UserinfoEmailScope,
				goauth2.UserinfoProfileScope,
			},
		},
	}
}

// NewState returns a random value to bind the callback to the browser that
// started the flow
func NewState() (string, error) {
	return util.GenerateToken(16)
}

func (g *Google) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades code for a token and loads the user's Google profile
func (g *Google) Exchange(ctx context.Context, code string) (*auth.Profile, error) {
	if code == "" {
		return nil, ErrNoCode
	}

	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code, %w", err)
	}

	svc, err := goauth2.NewService(ctx, option.WithTokenSource(g.conf.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service, %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google user info, %w", err)
	}

	return ProfileOf(info), nil
}

// ProfileOf converts Google user info. Addresses Google has not verified are
// dropped.
func ProfileOf(info *goauth2.Userinfo) *auth.Profile {
	p := &auth.Profile{
		ID:          info.Id,
		DisplayName: info.Name,
		Provider:    model.ProviderGoogle,
	}

	if info.Email != "" && info.VerifiedEmail != nil && *info.VerifiedEmail {
		p.Emails = []string{info.Email}
	}

	if info.Picture != "" {
		p.Photos = []string{info.Picture}
	}

	return p
}
