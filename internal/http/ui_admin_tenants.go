package httpx

import (
	"net/http"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func adminTenantListMeta() PageMeta {
	return PageMeta{Title: "Tenants", PageTitle: "Tenants", CurrentPage: PageAdminTenants}
}

func adminTenantFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Tenant", PageTitle: "Edit Tenant", CurrentPage: PageAdminTenantForm}
	}
	return PageMeta{Title: "New Tenant", PageTitle: "New Tenant", CurrentPage: PageAdminTenantForm}
}

// AdminTenants serves the tenant list page.
// GET /admin/tenants.
func (h *UIHandlers) AdminTenants(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	tenants, err := h.AdminSvc.ListTenants(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load tenants", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminTenantListMeta()})
		return
	}

	data := NewTemplateData(r, adminTenantListMeta()).
		With("Tenants", tenants).
		Build()
	h.renderPage(w, r, data)
}

// AdminTenantNew renders the create form.
// GET /admin/tenants/new.
func (h *UIHandlers) AdminTenantNew(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, adminTenantFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		With("Tenant", model.Tenant{IsActive: true}).
		Build()
	h.renderPage(w, r, data)
}

// AdminTenantEdit renders the edit form.
// GET /admin/tenants/{id}/edit.
func (h *UIHandlers) AdminTenantEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	tenants, err := h.AdminSvc.ListTenants(r.Context(), scope)
	if err != nil {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminTenantFormMeta(FormModeEdit)})
		return
	}

	// The backend exposes no single-tenant read, so pick from the list.
	var tenant *model.Tenant
	for i := range tenants {
		if tenants[i].ID == id {
			tenant = &tenants[i]
			break
		}
	}
	if tenant == nil {
		h.NotFound(w, r)
		return
	}

	data := NewTemplateData(r, adminTenantFormMeta(FormModeEdit)).
		With("Mode", string(FormModeEdit)).
		With("Tenant", *tenant).
		Build()
	h.renderPage(w, r, data)
}

func parseTenantForm(r *http.Request) (crmapi.TenantInput, map[string]string) {
	fieldErrors := map[string]string{}
	isActive := r.FormValue("is_active") == "on" || r.FormValue("is_active") == "true"
	in := crmapi.TenantInput{
		Name:     formString(r, "name"),
		IsActive: &isActive,
	}
	if in.Name == "" {
		fieldErrors["name"] = "Name is required."
	}
	return in, fieldErrors
}

func (h *UIHandlers) renderTenantFormError(w http.ResponseWriter, r *http.Request, opts ErrorOpts, mode FormMode, id int64, in crmapi.TenantInput) {
	tenant := model.Tenant{ID: id, Name: in.Name}
	if in.IsActive != nil {
		tenant.IsActive = *in.IsActive
	}
	opts.PageMeta = adminTenantFormMeta(mode)
	opts.Data = map[string]any{"Mode": string(mode), "Tenant": tenant}
	h.RenderError(opts)
}

// AdminTenantCreate handles POST from the create form.
// POST /admin/tenants.
func (h *UIHandlers) AdminTenantCreate(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parseTenantForm(r)
	if len(fieldErrors) > 0 {
		h.renderTenantFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeCreate, 0, in)
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.AdminSvc.CreateTenant(r.Context(), scope, in); err != nil {
		h.renderTenantFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeCreate, 0, in)
		return
	}

	h.redirectAfterWrite(w, r, "/admin/tenants")
}

// AdminTenantUpdate handles POST from the edit form.
// POST /admin/tenants/{id}.
func (h *UIHandlers) AdminTenantUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	in, fieldErrors := parseTenantForm(r)
	if len(fieldErrors) > 0 {
		h.renderTenantFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeEdit, id, in)
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.AdminSvc.UpdateTenant(r.Context(), scope, id, in); err != nil {
		h.renderTenantFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeEdit, id, in)
		return
	}

	h.redirectAfterWrite(w, r, "/admin/tenants")
}

// AdminTenantDelete removes a tenant.
// POST /admin/tenants/{id}/delete.
func (h *UIHandlers) AdminTenantDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	if err := h.AdminSvc.DeleteTenant(r.Context(), scope, id); err != nil && !apperrors.IsNotFound(err) {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminTenantListMeta()})
		return
	}

	h.redirectAfterWrite(w, r, "/admin/tenants")
}
