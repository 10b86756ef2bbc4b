// Package config resolves CLI configuration from the environment through
// viper. All keys live under the LICLIENT_ prefix (LICLIENT_TOKEN,
// LICLIENT_BASE_URL, ...).
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	keyToken             = "token"
	keyBaseURL           = "base_url"
	keyLogLevel          = "log_level"
	keyDatabasePath      = "database_path"
	keyConnectTimeoutSec = "connect_timeout_sec"
	keyRequestTimeoutSec = "request_timeout_sec"

	defaultBaseURL           = "https://lichess.org"
	defaultLogLevel          = "INFO"
	defaultConnectTimeoutSec = 10
	defaultRequestTimeoutSec = 30
)

// Settings exposes typed accessors over the resolved configuration. The
// token is deliberately not part of String/serialized forms.
type Settings struct {
	resolver *viper.Viper
}

// Load binds the LICLIENT_* environment and defaults onto the given viper
// instance.
func Load(resolver *viper.Viper) (Settings, error) {
	resolver.SetEnvPrefix("LICLIENT")
	resolver.AutomaticEnv()

	resolver.SetDefault(keyBaseURL, defaultBaseURL)
	resolver.SetDefault(keyLogLevel, defaultLogLevel)
	resolver.SetDefault(keyDatabasePath, defaultDatabasePath())
	resolver.SetDefault(keyConnectTimeoutSec, defaultConnectTimeoutSec)
	resolver.SetDefault(keyRequestTimeoutSec, defaultRequestTimeoutSec)

	return Settings{resolver: resolver}, nil
}

// Token returns the bearer token from the environment, or "" when the CLI
// should fall back to the active stored profile.
func (settings Settings) Token() string {
	return settings.resolver.GetString(keyToken)
}

// BaseURL returns the server base URL.
func (settings Settings) BaseURL() string {
	return settings.resolver.GetString(keyBaseURL)
}

// LogLevel returns the configured log level string.
func (settings Settings) LogLevel() string {
	return settings.resolver.GetString(keyLogLevel)
}

// DatabasePath returns the location of the profile database.
func (settings Settings) DatabasePath() string {
	return settings.resolver.GetString(keyDatabasePath)
}

// ConnectTimeout bounds dialing and TLS setup.
func (settings Settings) ConnectTimeout() time.Duration {
	return time.Duration(settings.resolver.GetInt(keyConnectTimeoutSec)) * time.Second
}

// RequestTimeout bounds a unary exchange, and the header wait of a stream.
func (settings Settings) RequestTimeout() time.Duration {
	return time.Duration(settings.resolver.GetInt(keyRequestTimeoutSec)) * time.Second
}

func defaultDatabasePath() string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "liclient.db"
	}
	return filepath.Join(homeDirectory, ".liclient", "profiles.db")
}
