package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

// mockSessionManager is a test double for the UI session surface.
type mockSessionManager struct {
	loginFunc   func(ctx context.Context, email, password string) (domainsession.Session, error)
	resolveFunc func(ctx context.Context, sessionID string) (*domainsession.Session, error)
	logoutFunc  func(ctx context.Context, sessionID string) error
	loggedOut   []string
}

func (m *mockSessionManager) Login(ctx context.Context, email, password string) (domainsession.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return testSession(false), nil
}

func (m *mockSessionManager) Resolve(ctx context.Context, sessionID string) (*domainsession.Session, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, sessionID)
	}
	return nil, nil //nolint:nilnil // no session is a valid resolve outcome
}

func (m *mockSessionManager) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = append(m.loggedOut, sessionID)
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionID)
	}
	return nil
}

func testSession(admin bool) domainsession.Session {
	user := &model.User{
		ID:          7,
		Email:       "pat@acme.test",
		FullName:    "Pat Rivera",
		IsActive:    true,
		IsSuperuser: model.StrictBool(admin),
	}
	sess := domainsession.Session{
		ID:        "sess-1234",
		Token:     "backend-token",
		User:      user,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if !admin {
		tenantID := int64(3)
		user.TenantID = &tenantID
		sess.TenantID = "3"
	}
	return sess
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLogin_Success_SetsCookieAndRedirects(t *testing.T) {
	sessions := &mockSessionManager{
		loginFunc: func(_ context.Context, email, password string) (domainsession.Session, error) {
			assert.Equal(t, "pat@acme.test", email)
			assert.Equal(t, "hunter2-hunter2", password)
			return testSession(false), nil
		},
	}
	h := &UIHandlers{Sessions: sessions, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"pat@acme.test"},
		"password": {"hunter2-hunter2"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "crm_session", cookies[0].Name)
	assert.Equal(t, "sess-1234", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestLogin_Success_HTMXUsesClientRedirect(t *testing.T) {
	h := &UIHandlers{Sessions: &mockSessionManager{}, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"pat@acme.test"},
		"password": {"hunter2-hunter2"},
	})
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/", w.Header().Get("HX-Redirect"))
}

func TestLogin_MissingFields_RendersFieldErrors(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/login", url.Values{"email": {""}, "password": {""}})
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Email is required.")
	assert.Contains(t, body, "Password is required.")
}

func TestLogin_RejectedCredentials_ShowsGenericMessage(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	sessions := &mockSessionManager{
		loginFunc: func(context.Context, string, string) (domainsession.Session, error) {
			return domainsession.Session{}, apperrors.Unauthorized("invalid credentials")
		},
	}
	h := &UIHandlers{T: tr, Sessions: sessions, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"pat@acme.test"},
		"password": {"wrong-password"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	// A rejected credential re-renders the form. It never bounces the
	// visitor back through the login redirect.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), "Invalid email or password.")
	// The submitted email is preserved; the backend detail is not leaked.
	assert.Contains(t, w.Body.String(), "pat@acme.test")
	assert.NotContains(t, w.Body.String(), "invalid credentials")
}

func TestLogin_BackendUnreachable_ShowsFriendlyMessage(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	sessions := &mockSessionManager{
		loginFunc: func(context.Context, string, string) (domainsession.Session, error) {
			return domainsession.Session{}, apperrors.Unavailable("dial tcp: connection refused")
		},
	}
	h := &UIHandlers{T: tr, Sessions: sessions, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/login", url.Values{
		"email":    {"pat@acme.test"},
		"password": {"hunter2-hunter2"},
	})
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CRM backend is unreachable")
}

func TestLoginPage_AuthenticatedUserRedirectsHome(t *testing.T) {
	h := &UIHandlers{Sessions: &mockSessionManager{}, CookieName: "crm_session"}

	sess := testSession(false)
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req = req.WithContext(SetSessionInContext(req.Context(), &sess))
	w := httptest.NewRecorder()

	h.LoginPage(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogout_ClearsServerSessionAndCookie(t *testing.T) {
	sessions := &mockSessionManager{}
	h := &UIHandlers{Sessions: sessions, CookieName: "crm_session"}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "crm_session", Value: "sess-1234"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, []string{"sess-1234"}, sessions.loggedOut)

	resp := w.Result()
	defer resp.Body.Close()
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestLogout_WithoutCookieStillRedirects(t *testing.T) {
	sessions := &mockSessionManager{}
	h := &UIHandlers{Sessions: sessions, CookieName: "crm_session"}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Empty(t, sessions.loggedOut)
}

// mockRegistrationAPI is a test double for the sign-up backend surface.
type mockRegistrationAPI struct {
	registerTenantFunc func(ctx context.Context, name string) (model.Tenant, error)
	registerUserFunc   func(ctx context.Context, in crmapi.RegisterUserInput) (model.User, error)
}

func (m *mockRegistrationAPI) RegisterTenant(ctx context.Context, name string) (model.Tenant, error) {
	if m.registerTenantFunc != nil {
		return m.registerTenantFunc(ctx, name)
	}
	return model.Tenant{ID: 11, Name: name, IsActive: true}, nil
}

func (m *mockRegistrationAPI) RegisterUser(ctx context.Context, in crmapi.RegisterUserInput) (model.User, error) {
	if m.registerUserFunc != nil {
		return m.registerUserFunc(ctx, in)
	}
	return model.User{ID: 21, Email: in.Email, FullName: in.FullName}, nil
}

func TestRegister_Success_RedirectsToLogin(t *testing.T) {
	var gotUser crmapi.RegisterUserInput
	signup := &mockRegistrationAPI{
		registerUserFunc: func(_ context.Context, in crmapi.RegisterUserInput) (model.User, error) {
			gotUser = in
			return model.User{ID: 21, Email: in.Email}, nil
		},
	}
	h := &UIHandlers{Sessions: &mockSessionManager{}, SignupSvc: signup, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/register", url.Values{
		"tenant_name": {"Acme Corp"},
		"full_name":   {"Pat Rivera"},
		"email":       {"pat@acme.test"},
		"password":    {"hunter2-hunter2"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	// The first user is created inside the freshly registered tenant.
	assert.Equal(t, int64(11), gotUser.TenantID)
	assert.Equal(t, "pat@acme.test", gotUser.Email)
}

func TestRegister_ShortPassword_RendersFieldError(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, SignupSvc: &mockRegistrationAPI{}, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/register", url.Values{
		"tenant_name": {"Acme Corp"},
		"email":       {"pat@acme.test"},
		"password":    {"short"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Password must be at least 8 characters.")
	// Submitted values survive the round trip.
	assert.Contains(t, body, "Acme Corp")
}

func TestRegister_TenantConflict_ShowsBackendDetail(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	signup := &mockRegistrationAPI{
		registerTenantFunc: func(context.Context, string) (model.Tenant, error) {
			return model.Tenant{}, apperrors.Conflict("tenant name already taken")
		},
	}
	h := &UIHandlers{T: tr, Sessions: &mockSessionManager{}, SignupSvc: signup, CookieName: "crm_session"}

	req := formRequest(http.MethodPost, "/register", url.Values{
		"tenant_name": {"Acme Corp"},
		"email":       {"pat@acme.test"},
		"password":    {"hunter2-hunter2"},
	})
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tenant name already taken")
}
