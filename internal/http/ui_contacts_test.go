package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcrm/crm-console/internal/crmapi"
)

// newBackendFixture starts a fake CRM backend and returns a client pointed at
// it. Tests exercise the real request shaping path, not a handler double.
func newBackendFixture(t *testing.T, handler http.HandlerFunc) *crmapi.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return crmapi.NewClient(crmapi.Config{BaseURL: server.URL + "/api/v1"}, nil)
}

func TestContacts_ListRendersTenantScopedRows(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	var gotAuth, gotTenant string
	client := newBackendFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/crm/contacts/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get("X-Tenant-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": 1, "first_name": "Dana", "last_name": "Whitfield", "email": "dana@acme.test", "company": "Acme"},
			{"id": 2, "first_name": "Lee", "last_name": "Osei", "email": "lee@acme.test", "company": "Globex"}
		]`))
	})

	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, ContactSvc: client, CookieName: "crm_session"}

	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.Contacts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// The non-admin scope carries both the credential and the tenant header.
	assert.Equal(t, "Bearer backend-token", gotAuth)
	assert.Equal(t, "3", gotTenant)

	body := w.Body.String()
	assert.True(t, ContainsAll(body, []string{"Dana", "Whitfield", "Lee", "Osei"}), "expected contact rows in page")
}

func TestContacts_AdminSessionOmitsTenantHeader(t *testing.T) {
	tr := RequireTemplateRenderer(t)

	var sawTenantHeader bool
	client := newBackendFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, sawTenantHeader = r.Header["X-Tenant-Id"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, ContactSvc: client, CookieName: "crm_session"}

	sess := testSession(true)
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.Contacts(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, sawTenantHeader, "admin requests must not carry X-Tenant-ID")
}

func TestContacts_BackendUnauthorizedResetsSession(t *testing.T) {
	sessions := &mockSessionManager{}
	client := newBackendFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "token expired"}`))
	})

	h := &UIHandlers{Sessions: sessions, ContactSvc: client, CookieName: "crm_session"}

	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Accept", "text/html")
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.Contacts(w, req)

	// A 401 anywhere in the page flow tears the session down and starts over.
	assert.Equal(t, []string{"sess-1234"}, sessions.loggedOut)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestContactCreate_PostsFormAndRedirects(t *testing.T) {
	var gotBody string
	client := newBackendFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/crm/contacts/", r.URL.Path)
		buf, rerr := io.ReadAll(r.Body)
		require.NoError(t, rerr)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 9, "first_name": "Dana", "last_name": "Whitfield"}`))
	})

	h := &UIHandlers{Sessions: &mockSessionManager{}, ContactSvc: client, CookieName: "crm_session"}

	sess := testSession(false)
	req := formRequest(http.MethodPost, "/contacts", url.Values{
		"first_name": {"Dana"},
		"last_name":  {"Whitfield"},
		"email":      {"dana@acme.test"},
	})
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.ContactCreate(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contacts", w.Header().Get("Location"))
	assert.Contains(t, gotBody, `"first_name":"Dana"`)
}

func TestContactCreate_MissingNameRendersFieldError(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, CookieName: "crm_session"}

	sess := testSession(false)
	req := formRequest(http.MethodPost, "/contacts", url.Values{"email": {"dana@acme.test"}})
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.ContactCreate(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "first or last name")
}
