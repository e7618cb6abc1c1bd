package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

func okHandler(sawSession *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sawSession != nil {
			_, *sawSession = SessionFromContext(r.Context())
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestResolveSession_RestoresSessionIntoContext(t *testing.T) {
	stored := testSession(false)
	sessions := &mockSessionManager{
		resolveFunc: func(_ context.Context, sessionID string) (*domainsession.Session, error) {
			require.Equal(t, "sess-1234", sessionID)
			return &stored, nil
		},
	}

	var got *domainsession.Session
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.AddCookie(&http.Cookie{Name: "crm_session", Value: "sess-1234"})
	w := httptest.NewRecorder()

	ResolveSession(sessions, "crm_session")(inner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "sess-1234", got.ID)
	assert.True(t, got.IsAuthenticated())
}

func TestResolveSession_NoCookieContinuesUnauthenticated(t *testing.T) {
	var sawSession bool
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	w := httptest.NewRecorder()

	ResolveSession(&mockSessionManager{}, "crm_session")(okHandler(&sawSession)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sawSession)
}

func TestResolveSession_ResolveFailureContinuesUnauthenticated(t *testing.T) {
	sessions := &mockSessionManager{
		resolveFunc: func(context.Context, string) (*domainsession.Session, error) {
			return nil, errors.New("redis down")
		},
	}

	var sawSession bool
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: "crm_session", Value: "sess-1234"})
	w := httptest.NewRecorder()

	ResolveSession(sessions, "crm_session")(okHandler(&sawSession)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sawSession)
}

func TestRequireSession_BrowserRedirectsToLogin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()

	RequireSession(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRequireSession_HTMXGetsClientRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()

	RequireSession(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestRequireSession_APIGets401JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	RequireSession(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication_required")
}

func TestRequireSession_AuthenticatedPassesThrough(t *testing.T) {
	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	var sawSession bool
	RequireSession(okHandler(&sawSession)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sawSession)
}

func TestRequireAdmin_TenantUserForbidden(t *testing.T) {
	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/admin/tenants", nil)
	req.Header.Set("Accept", "text/html")
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	RequireAdmin(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_TenantUserAPIGets403JSON(t *testing.T) {
	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/admin/tenants", nil)
	req.Header.Set("Accept", "application/json")
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	RequireAdmin(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient_permissions")
}

func TestRequireAdmin_SuperuserPassesThrough(t *testing.T) {
	sess := testSession(true)
	req := httptest.NewRequest(http.MethodGet, "/admin/tenants", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	var sawSession bool
	RequireAdmin(okHandler(&sawSession)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, sawSession)
}

func TestRequireAdmin_UnauthenticatedRedirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/tenants", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()

	RequireAdmin(okHandler(nil)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header map[string]string
		want   bool
	}{
		{name: "static asset", path: "/static/css/styles.css", header: map[string]string{"Accept": "text/css"}, want: false},
		{name: "htmx request", path: "/contacts", header: map[string]string{"HX-Request": "true"}, want: true},
		{name: "html accept", path: "/contacts", header: map[string]string{"Accept": "text/html,*/*"}, want: true},
		{name: "json accept", path: "/contacts", header: map[string]string{"Accept": "application/json"}, want: false},
		{name: "no accept header", path: "/contacts", header: nil, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, isBrowserRequest(req))
		})
	}
}
