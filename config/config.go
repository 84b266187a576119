// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
	validEnvs      = []string{"development", "production"}
)

// ErrNoJWTSecret is returned when no signing secret was configured. The caller
// is expected to print GenSecret() and exit.
var ErrNoJWTSecret = errors.New("no JWT secret configured")

type Config struct {
	App        App        `mapstructure:"app"`
	Host       Host       `mapstructure:"host"`
	Database   Database   `mapstructure:"database"`
	JWT        JWT        `mapstructure:"jwt"`
	Mail       Mail       `mapstructure:"mail"`
	Google     Google     `mapstructure:"google"`
	Redis      Redis      `mapstructure:"redis"`
	Security   Security   `mapstructure:"security"`
	Cloudflare Cloudflare `mapstructure:"cloudflare"`
	Cleanup    Cleanup    `mapstructure:"cleanup"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"env"`
}

// Production reports whether cookies should be marked secure and logs encoded as JSON
func (a App) Production() bool {
	return a.Env == "production"
}

type Host struct {
	Port   int      `mapstructure:"port"`
	Domain string   `mapstructure:"domain"`
	CORS   []string `mapstructure:"cors"`
	SSL    SSL      `mapstructure:"ssl"`

	// Proxies allowed to set X-Forwarded-For. Empty trusts none, so lockouts
	// key on the socket address.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type SSL struct {
	Enabled            bool   `mapstructure:"enabled"`
	CertificatePath    string `mapstructure:"certificate_path"`
	CertificateKeyPath string `mapstructure:"certificate_key_path"`
}

type Database struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWT struct {
	Secret     string        `mapstructure:"secret"`
	Issuer     string        `mapstructure:"issuer"`
	AccessTTL  time.Duration `mapstructure:"access_ttl"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"`

	// When set, a refresh also hands out a new refresh token instead of only
	// burning the one that was used
	RotateRefresh bool `mapstructure:"rotate_refresh"`
}

type Mail struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type Google struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Enabled reports whether the Google login routes should be mounted
func (g Google) Enabled() bool {
	return g.ClientID != ""
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Security struct {
	RateLimit int   `mapstructure:"rate_limit"`
	BodyLimit int64 `mapstructure:"body_limit"`
}

type Cloudflare struct {
	Turnstile Turnstile `mapstructure:"turnstile"`
}

type Turnstile struct {
	Enabled     bool   `mapstructure:"enabled"`
	SecretToken string `mapstructure:"secret_token"`
}

type Cleanup struct {
	Interval time.Duration `mapstructure:"interval"`

	// Accounts that passed email verification but never set a password are
	// removed after this long
	UnverifiedTTL time.Duration `mapstructure:"unverified_ttl"`
}

// GenSecret returns a random hex string suitable for jwt.secret
func GenSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup parses the command line and loads the configuration. Function will
// return an error if something is critically wrong and the application
// can't run because of that.
func Setup() (*Config, error) {
	fs := pflag.NewFlagSet("protofolio", pflag.ContinueOnError)
	path := fs.String("config", "", "Path to the config.toml file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	return Load(*path)
}

// Load reads config.toml from path (or the working directory when path is
// empty), overlays environment variables and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")
	v.BindEnv("app.env", "APP_ENV", "NODE_ENV")

	v.BindEnv("host.port", "HOST_PORT", "PORT")
	v.BindEnv("host.domain", "HOST_DOMAIN")
	v.BindEnv("host.cors", "HOST_CORS", "CORS")
	v.BindEnv("host.trusted_proxies", "HOST_TRUSTED_PROXIES")
	v.BindEnv("host.ssl.enabled", "HOST_SSL_ENABLED")
	v.BindEnv("host.ssl.certificate_path", "HOST_SSL_CERTIFICATE_PATH", "SSL_CERT_PATH")
	v.BindEnv("host.ssl.certificate_key_path", "HOST_SSL_CERTIFICATE_KEY_PATH", "SSL_KEY_PATH")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("database.pool_size", "DATABASE_POOL_SIZE", "DB_POOL_SIZE")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.issuer", "JWT_ISSUER")
	v.BindEnv("jwt.access_ttl", "JWT_ACCESS_TTL")
	v.BindEnv("jwt.refresh_ttl", "JWT_REFRESH_TTL")
	v.BindEnv("jwt.rotate_refresh", "JWT_ROTATE_REFRESH")

	v.BindEnv("mail.host", "MAIL_HOST")
	v.BindEnv("mail.port", "MAIL_PORT")
	v.BindEnv("mail.username", "MAIL_USERNAME", "EMAIL")
	v.BindEnv("mail.password", "MAIL_PASSWORD", "PASSWORD")
	v.BindEnv("mail.from", "MAIL_SENDER_ADDRESS")

	v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("google.callback_url", "GOOGLE_CALLBACK_URL")

	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.body_limit", "SECURITY_BODY_LIMIT")

	v.BindEnv("cloudflare.turnstile.enabled", "TURNSTILE_ENABLED")
	v.BindEnv("cloudflare.turnstile.secret_token", "TURNSTILE_SECRET_TOKEN")

	v.BindEnv("cleanup.interval", "CLEANUP_INTERVAL")
	v.BindEnv("cleanup.unverified_ttl", "CLEANUP_UNVERIFIED_TTL")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.env", "development")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "database.db")
	v.SetDefault("database.pool_size", 10)

	v.SetDefault("jwt.issuer", "Protofolio")
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("jwt.rotate_refresh", false)

	v.SetDefault("mail.port", 587)

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.body_limit", 1<<20)

	v.SetDefault("cloudflare.turnstile.enabled", false)

	v.SetDefault("cleanup.interval", time.Hour)
	v.SetDefault("cleanup.unverified_ttl", 30*24*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Running purely from environment variables is fine
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	// Comma separated lists come in as a single element from the environment
	c.Host.CORS = splitList(c.Host.CORS)
	c.Host.TrustedProxies = splitList(c.Host.TrustedProxies)

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func splitList(in []string) []string {
	if len(in) == 1 && strings.Contains(in[0], ",") {
		in = strings.Split(in[0], ",")
	}

	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// Validate checks every value that can't be fixed with a default
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if !slices.Contains(validEnvs, c.App.Env) {
		return errors.New("invalid app environment provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if len(c.Host.CORS) == 0 {
		return errors.New("host.cors needs at least one origin")
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, c.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}

	if c.JWT.Secret == "" {
		return ErrNoJWTSecret
	}

	if c.JWT.Issuer == "" {
		return errors.New("jwt.issuer can't be empty")
	}

	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be bigger than 0")
	}

	if c.Mail.Host == "" {
		return errors.New("mail.host can't be empty")
	}

	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}

	if c.Mail.From == "" {
		return errors.New("mail.from can't be empty")
	}

	if c.Google.Enabled() && (c.Google.ClientSecret == "" || c.Google.CallbackURL == "") {
		return errors.New("google.client_secret and google.callback_url are required when google.client_id is set")
	}

	if c.Security.RateLimit <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if c.Security.BodyLimit <= 0 {
		return errors.New("security.body_limit must be bigger than 0")
	}

	if c.Cloudflare.Turnstile.Enabled && c.Cloudflare.Turnstile.SecretToken == "" {
		return errors.New("turnstile secret token is missing")
	}

	if c.Cleanup.Interval <= 0 {
		return errors.New("cleanup.interval must be bigger than 0")
	}

	if c.Cleanup.UnverifiedTTL <= 0 {
		return errors.New("cleanup.unverified_ttl must be bigger than 0")
	}

	return nil
}
