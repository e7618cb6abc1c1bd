package config

import "time"

// RedisConfig contains Redis connection configuration for session storage.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// SessionConfig controls server-side session behavior.
type SessionConfig struct {
	// TTL is how long a session record lives in Redis. The backend token is
	// opaque to the console, so session lifetime is bounded here rather than
	// derived from token claims.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`

	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"crm_session"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.TTL <= 0 {
		s.TTL = 12 * time.Hour
	}
	if s.CookieName == "" {
		s.CookieName = "crm_session"
	}
}
