package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_USERNAME", "noreply@example.com")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", c.App.LogLevel)
	assert.False(t, c.App.Production())
	assert.Equal(t, 8080, c.Host.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, c.Host.CORS)
	assert.Empty(t, c.Host.TrustedProxies)
	assert.Equal(t, "sqlite", c.Database.Driver)
	assert.Equal(t, "Protofolio", c.JWT.Issuer)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, c.JWT.RefreshTTL)
	assert.False(t, c.JWT.RotateRefresh)
	assert.Equal(t, 587, c.Mail.Port)
	assert.Equal(t, "noreply@example.com", c.Mail.From)
	assert.False(t, c.Google.Enabled())
	assert.Equal(t, time.Hour, c.Cleanup.Interval)
	assert.Equal(t, 30*24*time.Hour, c.Cleanup.UnverifiedTTL)
}

func TestLoadWithoutSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrNoJWTSecret)
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("HOST_CORS", "https://a.example.com, https://b.example.com")
	t.Setenv("HOST_TRUSTED_PROXIES", "10.0.0.1")
	t.Setenv("JWT_ACCESS_TTL", "5m")
	t.Setenv("JWT_ROTATE_REFRESH", "true")
	t.Setenv("APP_ENV", "production")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.Host.CORS)
	assert.Equal(t, []string{"10.0.0.1"}, c.Host.TrustedProxies)
	assert.Equal(t, 5*time.Minute, c.JWT.AccessTTL)
	assert.True(t, c.JWT.RotateRefresh)
	assert.True(t, c.App.Production())
}

func TestLoadFromFile(t *testing.T) {
	setRequired(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[host]
port = 9000

[jwt]
issuer = "Shop"
refresh_ttl = "48h"

[google]
client_id = "id"
client_secret = "secret"
callback_url = "http://localhost:9000/api/auth/callback/google"
`), 0o600)
	require.NoError(t, err)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, c.Host.Port)
	assert.Equal(t, "Shop", c.JWT.Issuer)
	assert.Equal(t, 48*time.Hour, c.JWT.RefreshTTL)
	assert.True(t, c.Google.Enabled())
}

func TestLoadMissingFile(t *testing.T) {
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		App:      App{LogLevel: "info", Env: "development"},
		Host:     Host{Port: 8080, CORS: []string{"http://localhost:5173"}},
		Database: Database{Driver: "sqlite", Path: "database.db"},
		JWT:      JWT{Secret: "s", Issuer: "Protofolio", AccessTTL: time.Minute, RefreshTTL: time.Hour},
		Mail:     Mail{Host: "smtp.example.com", From: "noreply@example.com"},
		Security: Security{RateLimit: 10, BodyLimit: 1024},
		Cleanup:  Cleanup{Interval: time.Hour, UnverifiedTTL: time.Hour},
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.App.LogLevel = "loud" }},
		{"env", func(c *Config) { c.App.Env = "staging" }},
		{"port", func(c *Config) { c.Host.Port = 0 }},
		{"cors", func(c *Config) { c.Host.CORS = nil }},
		{"ssl without cert", func(c *Config) { c.Host.SSL.Enabled = true }},
		{"driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
		{"issuer", func(c *Config) { c.JWT.Issuer = "" }},
		{"access ttl", func(c *Config) { c.JWT.AccessTTL = 0 }},
		{"mail host", func(c *Config) { c.Mail.Host = "" }},
		{"mail from", func(c *Config) { c.Mail.From = "" }},
		{"partial google", func(c *Config) { c.Google.ClientID = "id" }},
		{"rate limit", func(c *Config) { c.Security.RateLimit = 0 }},
		{"body limit", func(c *Config) { c.Security.BodyLimit = 0 }},
		{"turnstile secret", func(c *Config) { c.Cloudflare.Turnstile.Enabled = true }},
		{"cleanup interval", func(c *Config) { c.Cleanup.Interval = 0 }},
		{"unverified ttl", func(c *Config) { c.Cleanup.UnverifiedTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidateWithoutSecret(t *testing.T) {
	c := validConfig()
	c.JWT.Secret = ""

	assert.ErrorIs(t, c.Validate(), ErrNoJWTSecret)
}

func TestGenSecret(t *testing.T) {
	a, b := GenSecret(), GenSecret()

	assert.Len(t, a, 128)
	assert.NotEqual(t, a, b)
}
