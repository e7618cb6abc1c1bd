package session

// Package session contains domain-level types for console sessions.
// It is pure and free of storage/transport concerns.

import (
	"time"

	"github.com/apexcrm/crm-console/internal/domain/model"
)

// Session is the server-side record kept for an authenticated browser.
// ID is an opaque session identifier carried by the session cookie. Token is
// the bearer credential issued by the CRM backend; the console never
// inspects or verifies it locally.
type Session struct {
	ID        string
	Token     string
	User      *model.User
	TenantID  string
	ExpiresAt time.Time
}

// IsAuthenticated reports whether both a user and a token are present.
// Partial records never count as a session.
func (s Session) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}

// IsAdmin reports whether the session belongs to a superuser. Only a user
// record whose is_superuser flag decoded as the strict boolean true
// qualifies; everything else is a tenant session.
func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.IsSuperuser.Bool()
}

// Scope is the immutable request-scoping snapshot taken from a session at
// handler time. Outbound backend calls receive a Scope rather than the
// session itself so that all session reads happen synchronously, before any
// network suspension point; a concurrent logout cannot leak a stale token
// onto an in-flight request.
type Scope struct {
	Token    string
	TenantID string
	Admin    bool
}

// Scope derives the request scope for this session. Admin sessions carry no
// tenant id, regardless of what was persisted: stale tenant state from a
// prior non-admin session must never scope an admin request.
func (s Session) Scope() Scope {
	sc := Scope{Token: s.Token, Admin: s.IsAdmin()}
	if !sc.Admin {
		sc.TenantID = s.TenantID
	}
	return sc
}
