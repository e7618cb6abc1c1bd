package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

const errMsgFixBelow = "Please fix the errors below."

// SessionManager is the session surface needed by the UI layer.
type SessionManager interface {
	Login(ctx context.Context, email, password string) (domainsession.Session, error)
	Resolve(ctx context.Context, sessionID string) (*domainsession.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// ContactsAPI is a minimal backend interface for the contacts UI.
type ContactsAPI interface {
	ListContacts(ctx context.Context, scope domainsession.Scope) ([]model.Contact, error)
	GetContact(ctx context.Context, scope domainsession.Scope, id int64) (model.Contact, error)
	CreateContact(ctx context.Context, scope domainsession.Scope, in model.ContactInput) (model.Contact, error)
	UpdateContact(ctx context.Context, scope domainsession.Scope, id int64, in model.ContactInput) (model.Contact, error)
	DeleteContact(ctx context.Context, scope domainsession.Scope, id int64) error
}

// LeadsAPI is a minimal backend interface for the leads UI.
type LeadsAPI interface {
	ListLeads(ctx context.Context, scope domainsession.Scope) ([]model.Lead, error)
	GetLead(ctx context.Context, scope domainsession.Scope, id int64) (model.Lead, error)
	CreateLead(ctx context.Context, scope domainsession.Scope, in model.LeadInput) (model.Lead, error)
	UpdateLead(ctx context.Context, scope domainsession.Scope, id int64, in model.LeadInput) (model.Lead, error)
	DeleteLead(ctx context.Context, scope domainsession.Scope, id int64) error
}

// OpportunitiesAPI is a minimal backend interface for the opportunities UI.
type OpportunitiesAPI interface {
	ListOpportunities(ctx context.Context, scope domainsession.Scope) ([]model.Opportunity, error)
	GetOpportunity(ctx context.Context, scope domainsession.Scope, id int64) (model.Opportunity, error)
	CreateOpportunity(ctx context.Context, scope domainsession.Scope, in model.OpportunityInput) (model.Opportunity, error)
	UpdateOpportunity(ctx context.Context, scope domainsession.Scope, id int64, in model.OpportunityInput) (model.Opportunity, error)
	DeleteOpportunity(ctx context.Context, scope domainsession.Scope, id int64) error
}

// AdminAPI is the backend surface for superuser administration pages.
type AdminAPI interface {
	ListTenants(ctx context.Context, scope domainsession.Scope) ([]model.Tenant, error)
	CreateTenant(ctx context.Context, scope domainsession.Scope, in crmapi.TenantInput) (model.Tenant, error)
	UpdateTenant(ctx context.Context, scope domainsession.Scope, id int64, in crmapi.TenantInput) (model.Tenant, error)
	DeleteTenant(ctx context.Context, scope domainsession.Scope, id int64) error
	ListUsers(ctx context.Context, scope domainsession.Scope) ([]model.User, error)
	CreateUser(ctx context.Context, scope domainsession.Scope, in crmapi.UserInput) (model.User, error)
	UpdateUser(ctx context.Context, scope domainsession.Scope, id int64, in crmapi.UserInput) (model.User, error)
	DeleteUser(ctx context.Context, scope domainsession.Scope, id int64) error
	AdminListContacts(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Contact, error)
	AdminListLeads(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Lead, error)
	AdminListOpportunities(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Opportunity, error)
}

// RegistrationAPI covers the unauthenticated sign-up flow.
type RegistrationAPI interface {
	RegisterTenant(ctx context.Context, name string) (model.Tenant, error)
	RegisterUser(ctx context.Context, in crmapi.RegisterUserInput) (model.User, error)
}

// Compile-time assertions that the backend client satisfies the UI interfaces.
var (
	_ ContactsAPI      = (*crmapi.Client)(nil)
	_ LeadsAPI         = (*crmapi.Client)(nil)
	_ OpportunitiesAPI = (*crmapi.Client)(nil)
	_ AdminAPI         = (*crmapi.Client)(nil)
	_ RegistrationAPI  = (*crmapi.Client)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T            *TemplateRenderer
	Sessions     SessionManager
	ContactSvc   ContactsAPI
	LeadSvc      LeadsAPI
	OppSvc       OpportunitiesAPI
	AdminSvc     AdminAPI
	SignupSvc    RegistrationAPI
	CookieName   string
	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// basePageData constructs the common page data map with session context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	data := map[string]any{
		"Title":           meta.Title,
		"PageTitle":       meta.PageTitle,
		"CurrentPage":     meta.CurrentPage,
		"IsAuthenticated": false,
		"IsAdmin":         false,
	}

	if session, ok := SessionFromContext(r.Context()); ok && session.IsAuthenticated() {
		data["IsAuthenticated"] = true
		data["IsAdmin"] = session.IsAdmin()
		data["TenantID"] = session.TenantID
		data["User"] = session.User
	}

	return data
}

// renderPage renders a page with proper HTMX partial support.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.renderTemplateFailure(w, r)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	// Include a <title> element so htmx updates document.title on partial swaps.
	title, _ := data["Title"].(string)
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	currentPage, _ := data["CurrentPage"].(string)
	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(currentPage), data); err != nil {
		h.logger().Error("partial content render failed",
			slog.String("page", currentPage),
			slog.Any("error", err),
		)
	}
}

func (h *UIHandlers) renderTemplateFailure(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":        "Error",
		"ErrorTitle":   "Something went wrong",
		"ErrorMessage": "The page could not be rendered. Please try again.",
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound renders the not-found error page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	data := map[string]any{
		"Title":        "Not Found",
		"ErrorTitle":   "Page not found",
		"ErrorMessage": "The page you are looking for does not exist.",
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}
