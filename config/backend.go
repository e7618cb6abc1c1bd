package config

import (
	"strings"
	"time"
)

// BackendConfig contains configuration for the CRM backend REST API that this
// console fronts. All business logic, persistence, and final authorization
// decisions live in that service.
type BackendConfig struct {
	// BaseURL is the backend API base, including the version prefix.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8000/api/v1"`

	// Timeout is the per-request timeout for backend calls. There is no
	// retry behavior: a failed request surfaces immediately to its caller.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.BaseURL == "" {
		b.BaseURL = "http://localhost:8000/api/v1"
	}
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
}
