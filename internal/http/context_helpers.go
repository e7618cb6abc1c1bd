package httpx

import (
	"context"

	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, sess *domainsession.Session) context.Context {
	if sess == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session from context and a boolean indicating presence.
func SessionFromContext(ctx context.Context) (*domainsession.Session, bool) {
	if sess, ok := ctx.Value(sessionKey{}).(*domainsession.Session); ok && sess != nil {
		return sess, true
	}
	return nil, false
}

// SessionIDFromContext returns the current session id, if any. The backend
// client's unauthorized hook uses this to tear down whichever session made
// the failing request.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.ID, true
	}
	return "", false
}

// ScopeFromContext captures the request scope snapshot for the current
// session. Handlers call this once, synchronously, before any backend call.
// An absent session yields the zero scope (no token, no tenant).
func ScopeFromContext(ctx context.Context) domainsession.Scope {
	if sess, ok := SessionFromContext(ctx); ok {
		return sess.Scope()
	}
	return domainsession.Scope{}
}
