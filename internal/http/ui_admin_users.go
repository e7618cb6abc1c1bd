package httpx

import (
	"net/http"

	"github.com/apexcrm/crm-console/internal/crmapi"
	"github.com/apexcrm/crm-console/internal/domain/model"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func adminUserListMeta() PageMeta {
	return PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageAdminUsers}
}

func adminUserFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit User", PageTitle: "Edit User", CurrentPage: PageAdminUserForm}
	}
	return PageMeta{Title: "New User", PageTitle: "New User", CurrentPage: PageAdminUserForm}
}

// AdminUsers serves the user list page.
// GET /admin/users.
func (h *UIHandlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	users, err := h.AdminSvc.ListUsers(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load users", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminUserListMeta()})
		return
	}

	data := NewTemplateData(r, adminUserListMeta()).
		With("Users", users).
		Build()
	h.renderPage(w, r, data)
}

// adminUserFormData loads tenant options alongside the form.
func (h *UIHandlers) adminUserFormData(r *http.Request, mode FormMode) (*TemplateDataBuilder, error) {
	scope := ScopeFromContext(r.Context())
	tenants, err := h.AdminSvc.ListTenants(r.Context(), scope)
	if err != nil {
		return nil, err
	}
	return NewTemplateData(r, adminUserFormMeta(mode)).
		With("Mode", string(mode)).
		With("Tenants", tenants), nil
}

// AdminUserNew renders the create form.
// GET /admin/users/new.
func (h *UIHandlers) AdminUserNew(w http.ResponseWriter, r *http.Request) {
	builder, err := h.adminUserFormData(r, FormModeCreate)
	if err != nil {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminUserFormMeta(FormModeCreate)})
		return
	}
	h.renderPage(w, r, builder.With("User", model.User{IsActive: true}).Build())
}

// AdminUserEdit renders the edit form.
// GET /admin/users/{id}/edit.
func (h *UIHandlers) AdminUserEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	users, err := h.AdminSvc.ListUsers(r.Context(), scope)
	if err != nil {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminUserFormMeta(FormModeEdit)})
		return
	}

	// The backend exposes no single-user read, so pick from the list.
	var user *model.User
	for i := range users {
		if users[i].ID == id {
			user = &users[i]
			break
		}
	}
	if user == nil {
		h.NotFound(w, r)
		return
	}

	builder, err := h.adminUserFormData(r, FormModeEdit)
	if err != nil {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminUserFormMeta(FormModeEdit)})
		return
	}
	h.renderPage(w, r, builder.With("User", *user).Build())
}

func parseUserForm(r *http.Request, isCreate bool) (crmapi.UserInput, map[string]string) {
	fieldErrors := map[string]string{}
	isActive := r.FormValue("is_active") == "on" || r.FormValue("is_active") == "true"
	isSuperuser := r.FormValue("is_superuser") == "on" || r.FormValue("is_superuser") == "true"

	in := crmapi.UserInput{
		Email:       formString(r, "email"),
		Password:    r.FormValue("password"),
		FullName:    formString(r, "full_name"),
		TenantID:    formInt64Ptr(r, "tenant_id", fieldErrors),
		IsActive:    &isActive,
		IsSuperuser: &isSuperuser,
	}

	if in.Email == "" {
		fieldErrors["email"] = "Email is required."
	}
	const minPasswordLen = 8
	if isCreate && len(in.Password) < minPasswordLen {
		fieldErrors["password"] = "Password must be at least 8 characters."
	}
	if !isCreate && in.Password != "" && len(in.Password) < minPasswordLen {
		fieldErrors["password"] = "Password must be at least 8 characters."
	}
	if !isSuperuser && in.TenantID == nil {
		fieldErrors["tenant_id"] = "Non-superuser accounts must belong to a tenant."
	}
	return in, fieldErrors
}

func (h *UIHandlers) renderUserFormError(w http.ResponseWriter, r *http.Request, opts ErrorOpts, mode FormMode, id int64, in crmapi.UserInput) {
	user := model.User{ID: id, Email: in.Email, FullName: in.FullName, TenantID: in.TenantID}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.IsSuperuser != nil {
		user.IsSuperuser = model.StrictBool(*in.IsSuperuser)
	}

	data := map[string]any{"Mode": string(mode), "User": user}
	scope := ScopeFromContext(r.Context())
	if tenants, err := h.AdminSvc.ListTenants(r.Context(), scope); err == nil {
		data["Tenants"] = tenants
	}

	opts.PageMeta = adminUserFormMeta(mode)
	opts.Data = data
	h.RenderError(opts)
}

// AdminUserCreate handles POST from the create form.
// POST /admin/users.
func (h *UIHandlers) AdminUserCreate(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parseUserForm(r, true)
	if len(fieldErrors) > 0 {
		h.renderUserFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeCreate, 0, in)
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.AdminSvc.CreateUser(r.Context(), scope, in); err != nil {
		h.renderUserFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeCreate, 0, in)
		return
	}

	h.redirectAfterWrite(w, r, "/admin/users")
}

// AdminUserUpdate handles POST from the edit form.
// POST /admin/users/{id}.
func (h *UIHandlers) AdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	in, fieldErrors := parseUserForm(r, false)
	if len(fieldErrors) > 0 {
		h.renderUserFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeEdit, id, in)
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.AdminSvc.UpdateUser(r.Context(), scope, id, in); err != nil {
		h.renderUserFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeEdit, id, in)
		return
	}

	h.redirectAfterWrite(w, r, "/admin/users")
}

// AdminUserDelete removes a user.
// POST /admin/users/{id}/delete.
func (h *UIHandlers) AdminUserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	// Deleting yourself would strand the session; refuse up front.
	if session, ok := SessionFromContext(r.Context()); ok && session.User != nil && session.User.ID == id {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      apperrors.Validation("you cannot delete your own account"),
			PageMeta: adminUserListMeta(),
		})
		return
	}

	scope := ScopeFromContext(r.Context())
	if err := h.AdminSvc.DeleteUser(r.Context(), scope, id); err != nil && !apperrors.IsNotFound(err) {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminUserListMeta()})
		return
	}

	h.redirectAfterWrite(w, r, "/admin/users")
}
