package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/apexcrm/crm-console/internal/crmapi"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func loginMeta() PageMeta {
	return PageMeta{Title: "Sign In", PageTitle: "Sign In", CurrentPage: PageLogin}
}

func registerMeta() PageMeta {
	return PageMeta{Title: "Create Account", PageTitle: "Create Account", CurrentPage: PageRegister}
}

// LoginPage renders the login form.
// GET /login.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	if session, ok := SessionFromContext(r.Context()); ok && session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderPage(w, r, NewTemplateData(r, loginMeta()).With("Email", "").Build())
}

// Login authenticates against the CRM backend and establishes a session.
// POST /login.
func (h *UIHandlers) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	fieldErrors := map[string]string{}
	if email == "" {
		fieldErrors["email"] = "Email is required."
	}
	if password == "" {
		fieldErrors["password"] = "Password is required."
	}
	if len(fieldErrors) > 0 {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: fieldErrors,
			PageMeta:    loginMeta(),
			Data:        map[string]any{"Email": email},
		})
		return
	}

	session, err := h.Sessions.Login(r.Context(), email, password)
	if err != nil {
		h.logger().InfoContext(r.Context(), "login rejected", "email", email)
		h.renderLoginFailure(w, r, err, email)
		return
	}

	h.setSessionCookie(w, r, session)

	if IsHTMX(r) {
		SetHXRedirect(w, "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderLoginFailure re-renders the login form with an error message. Rejected
// credentials are a normal outcome here, so unlike other pages a 401 from the
// backend does not trigger the session-reset redirect.
func (h *UIHandlers) renderLoginFailure(w http.ResponseWriter, r *http.Request, err error, email string) {
	msg := "Invalid email or password."
	if !apperrors.IsUnauthorized(err) && !apperrors.IsValidation(err) {
		msg = processError(err)
	}

	builder := NewTemplateData(r, loginMeta()).
		WithError(msg).
		With("Email", email)
	h.renderPage(w, r, builder.Build())
}

// RegisterPage renders the tenant sign-up form.
// GET /register.
func (h *UIHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if session, ok := SessionFromContext(r.Context()); ok && session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := NewTemplateData(r, registerMeta()).
		With("TenantName", "").
		With("FullName", "").
		With("Email", "").
		Build()
	h.renderPage(w, r, data)
}

// Register creates a tenant and its first user, then sends the visitor to the
// login page to sign in.
// POST /register.
func (h *UIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	tenantName := strings.TrimSpace(r.FormValue("tenant_name"))
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	formData := map[string]any{
		"TenantName": tenantName,
		"FullName":   fullName,
		"Email":      email,
	}

	fieldErrors := validateRegistration(tenantName, email, password)
	if len(fieldErrors) > 0 {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: fieldErrors,
			PageMeta:    registerMeta(),
			Data:        formData,
		})
		return
	}

	tenant, err := h.SignupSvc.RegisterTenant(r.Context(), tenantName)
	if err != nil {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			PageMeta: registerMeta(),
			Data:     formData,
		})
		return
	}

	_, err = h.SignupSvc.RegisterUser(r.Context(), crmapi.RegisterUserInput{
		Email:    email,
		Password: password,
		FullName: fullName,
		TenantID: tenant.ID,
	})
	if err != nil {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			PageMeta: registerMeta(),
			Data:     formData,
		})
		return
	}

	if IsHTMX(r) {
		SetHXRedirect(w, "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func validateRegistration(tenantName, email, password string) map[string]string {
	fieldErrors := map[string]string{}
	if tenantName == "" {
		fieldErrors["tenant_name"] = "Company name is required."
	}
	if email == "" {
		fieldErrors["email"] = "Email is required."
	}
	const minPasswordLen = 8
	if len(password) < minPasswordLen {
		fieldErrors["password"] = "Password must be at least 8 characters."
	}
	return fieldErrors
}

// Logout invalidates the server-side session and clears the cookie.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.CookieName); err == nil && cookie.Value != "" {
		if logoutErr := h.Sessions.Logout(r.Context(), cookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}

	h.clearSessionCookie(w)

	if IsHTMX(r) {
		SetHXRedirect(w, "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainsession.Session) {
	isSecure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}
