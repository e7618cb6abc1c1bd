package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
	"github.com/apexcrm/crm-console/internal/ports"
)

// DefaultTenantID is assigned to non-admin users whose login response omits
// a tenant. Observed backend behavior; kept for compatibility.
const DefaultTenantID = "1"

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Auth   ports.Authenticator // Required: backend login
	Store  ports.SessionStore  // Required: session persistence
	Config SessionServiceConfig
}

// SessionServiceConfig carries tunables for SessionService.
type SessionServiceConfig struct {
	TTL    time.Duration
	Logger *slog.Logger
}

// SessionService is the single source of truth for "who is logged in and
// with what scope". It coordinates backend authentication with session
// persistence; handlers read session state only through records it returns.
type SessionService struct {
	auth   ports.Authenticator
	store  ports.SessionStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Auth == nil {
		panic("Authenticator is required")
	}
	if opts.Store == nil {
		panic("SessionStore is required")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		auth:   opts.Auth,
		store:  opts.Store,
		ttl:    ttl,
		logger: logger,
	}
}

// Login authenticates against the backend and mints a new session. A fresh
// session id is always generated: a role change can only happen through a
// new login, never by mutating an existing session in place.
//
// On any failure the store is untouched; there is no partially populated
// session to observe.
func (s *SessionService) Login(ctx context.Context, email, password string) (domainsession.Session, error) {
	if email == "" {
		return domainsession.Session{}, errors.New("email is required")
	}
	if password == "" {
		return domainsession.Session{}, errors.New("password is required")
	}

	res, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domainsession.Session{}, err
	}

	sess := buildSession(email, res)
	sess.ID = uuid.New().String()
	sess.ExpiresAt = time.Now().Add(s.ttl)

	if saveErr := s.store.Save(ctx, sess); saveErr != nil {
		return domainsession.Session{}, fmt.Errorf("save session: %w", saveErr)
	}

	s.logger.InfoContext(ctx, "login",
		slog.String("email", sess.User.Email),
		slog.Bool("admin", sess.IsAdmin()),
	)
	return sess, nil
}

// buildSession constructs the session record from a validated login result,
// applying the defaulting rules: full name "User" when omitted, the login
// email when the response carries none, and tenant "1" for non-admins
// without an assignment. Admin sessions never carry a tenant id.
func buildSession(loginEmail string, res ports.LoginResult) domainsession.Session {
	user := &model.User{
		ID:          res.UserID,
		Email:       res.Email,
		FullName:    res.FullName,
		IsActive:    true,
		IsSuperuser: model.StrictBool(res.IsSuperuser),
		TenantID:    res.TenantID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if user.ID == 0 {
		user.ID = 1
	}
	if user.Email == "" {
		user.Email = loginEmail
	}
	if user.FullName == "" {
		user.FullName = "User"
	}

	sess := domainsession.Session{
		Token: res.AccessToken,
		User:  user,
	}
	if !sess.IsAdmin() {
		if res.TenantID != nil {
			sess.TenantID = strconv.FormatInt(*res.TenantID, 10)
		} else {
			sess.TenantID = DefaultTenantID
		}
	}
	return sess
}

// Resolve loads the session for an id. Missing, expired, partial, or corrupt
// records all surface as an error; callers treat any error as an
// unauthenticated request.
func (s *SessionService) Resolve(ctx context.Context, sessionID string) (*domainsession.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !sess.IsAuthenticated() {
		// The store should never hand out partial records; be defensive.
		if deleteErr := s.store.Delete(ctx, sessionID); deleteErr != nil {
			return nil, fmt.Errorf("discard partial session: %w", deleteErr)
		}
		return nil, errors.New("partial session discarded")
	}

	return &sess, nil
}

// Logout removes a session. Removing an already-absent session is not an
// error: the end state is the same.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
