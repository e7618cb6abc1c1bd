package ports

// Package ports defines interfaces (hexagonal ports) for session persistence
// and backend authentication. Implementations live in internal/adapters and
// internal/crmapi; orchestration in internal/service.

import (
	"context"

	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// SessionStore persists and retrieves console sessions.
//
// Implementations must expose no partial state: a stored record missing
// either the token or the user, or whose user data fails to deserialize, is
// discarded and reported as not found.
type SessionStore interface {
	Save(ctx context.Context, sess domainsession.Session) error
	Get(ctx context.Context, id string) (domainsession.Session, error)
	Delete(ctx context.Context, id string) error
}

// LoginResult is the parsed, validated response of the backend login call.
type LoginResult struct {
	AccessToken string
	UserID      int64
	Email       string
	FullName    string
	TenantID    *int64
	IsSuperuser bool
}

// Authenticator performs credential login against the CRM backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
}
