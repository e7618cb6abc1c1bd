package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
	"github.com/apexcrm/crm-console/internal/ports"
)

// fakeAuthenticator is a test double for the backend login call.
type fakeAuthenticator struct {
	loginFunc func(ctx context.Context, email, password string) (ports.LoginResult, error)
	calls     int
}

func (f *fakeAuthenticator) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	f.calls++
	if f.loginFunc != nil {
		return f.loginFunc(ctx, email, password)
	}
	return ports.LoginResult{AccessToken: "tok"}, nil
}

// memoryStore is an in-memory SessionStore for service tests.
type memoryStore struct {
	sessions map[string]domainsession.Session
	saveErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]domainsession.Session)}
}

func (m *memoryStore) Save(_ context.Context, sess domainsession.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := sess
	if stored.IsAdmin() {
		stored.TenantID = ""
	}
	m.sessions[sess.ID] = stored
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (domainsession.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainsession.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newTestService(auth *fakeAuthenticator, store *memoryStore) *SessionService {
	return NewSessionService(SessionServiceOptions{
		Auth:   auth,
		Store:  store,
		Config: SessionServiceConfig{TTL: time.Hour},
	})
}

func TestLogin_AdminSession(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(_ context.Context, email, _ string) (ports.LoginResult, error) {
		tid := int64(3)
		return ports.LoginResult{
			AccessToken: "tok1",
			UserID:      7,
			Email:       email,
			IsSuperuser: true,
			TenantID:    &tid, // backend sent one anyway; it must be ignored
		}, nil
	}}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	sess, err := svc.Login(context.Background(), "admin@example.com", "x")
	require.NoError(t, err)

	assert.Equal(t, "tok1", sess.Token)
	assert.True(t, sess.IsAdmin())
	assert.True(t, sess.IsAuthenticated())
	assert.Empty(t, sess.TenantID)
	assert.Empty(t, sess.Scope().TenantID)

	stored := store.sessions[sess.ID]
	assert.Empty(t, stored.TenantID, "admin sessions must not persist a tenant id")
}

func TestLogin_TenantSessionWithAssignedTenant(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(_ context.Context, _, _ string) (ports.LoginResult, error) {
		tid := int64(42)
		return ports.LoginResult{AccessToken: "tok2", UserID: 12, IsSuperuser: false, TenantID: &tid}, nil
	}}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	sess, err := svc.Login(context.Background(), "user@example.com", "x")
	require.NoError(t, err)

	assert.False(t, sess.IsAdmin())
	assert.Equal(t, "42", sess.TenantID)
	assert.Equal(t, "42", store.sessions[sess.ID].TenantID)
	assert.Equal(t, "42", sess.Scope().TenantID)
}

func TestLogin_TenantSessionDefaultsTenant(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(_ context.Context, _, _ string) (ports.LoginResult, error) {
		return ports.LoginResult{AccessToken: "tok3", IsSuperuser: false}, nil
	}}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	sess, err := svc.Login(context.Background(), "user@example.com", "x")
	require.NoError(t, err)
	assert.Equal(t, DefaultTenantID, sess.TenantID)
	assert.Equal(t, DefaultTenantID, store.sessions[sess.ID].TenantID)
}

func TestLogin_DefaultsForSparseResponse(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(_ context.Context, _, _ string) (ports.LoginResult, error) {
		return ports.LoginResult{AccessToken: "tok"}, nil
	}}
	svc := newTestService(auth, newMemoryStore())

	sess, err := svc.Login(context.Background(), "someone@example.com", "x")
	require.NoError(t, err)

	require.NotNil(t, sess.User)
	assert.Equal(t, int64(1), sess.User.ID)
	assert.Equal(t, "someone@example.com", sess.User.Email)
	assert.Equal(t, "User", sess.User.FullName)
	assert.True(t, sess.User.IsActive)
	assert.False(t, sess.IsAdmin())
}

func TestLogin_EmptyCredentialsRejectedLocally(t *testing.T) {
	auth := &fakeAuthenticator{}
	svc := newTestService(auth, newMemoryStore())

	_, err := svc.Login(context.Background(), "", "pw")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), "a@b.c", "")
	require.Error(t, err)
	assert.Zero(t, auth.calls, "backend must not be called with empty credentials")
}

func TestLogin_BackendFailureLeavesStoreUntouched(t *testing.T) {
	auth := &fakeAuthenticator{loginFunc: func(_ context.Context, _, _ string) (ports.LoginResult, error) {
		return ports.LoginResult{}, errors.New("incorrect email or password")
	}}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	_, err := svc.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.Empty(t, store.sessions)
}

func TestLogin_NewSessionIDPerLogin(t *testing.T) {
	auth := &fakeAuthenticator{}
	svc := newTestService(auth, newMemoryStore())

	first, err := svc.Login(context.Background(), "a@b.c", "x")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "a@b.c", "x")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestResolveAndLogout(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	sess, err := svc.Login(context.Background(), "a@b.c", "x")
	require.NoError(t, err)

	got, err := svc.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)

	require.NoError(t, svc.Logout(context.Background(), sess.ID))

	_, err = svc.Resolve(context.Background(), sess.ID)
	require.Error(t, err)

	// Logging out twice is harmless.
	require.NoError(t, svc.Logout(context.Background(), sess.ID))
	require.NoError(t, svc.Logout(context.Background(), ""))
}

func TestResolve_PartialRecordDiscarded(t *testing.T) {
	auth := &fakeAuthenticator{}
	store := newMemoryStore()
	svc := newTestService(auth, store)

	// A record with a token but no user must never surface as a session.
	store.sessions["partial"] = domainsession.Session{ID: "partial", Token: "tok"}

	_, err := svc.Resolve(context.Background(), "partial")
	require.Error(t, err)
	assert.NotContains(t, store.sessions, "partial")
}
