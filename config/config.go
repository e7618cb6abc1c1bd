package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - backend.go: CRM backend API configuration
//   - http.go: HTTP server configuration
//   - session.go: Session storage configuration
type AppConfig struct {
	// IsDev controls development mode behavior (template hot reloading, etc.)
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Backend is the CRM backend API configuration.
	Backend BackendConfig `envPrefix:"BACKEND_"`

	// Session storage configuration.
	Session SessionConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration.
	HTTP HTTPConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Backend.Sanitize()
	c.Session.Sanitize()
	c.HTTP.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
