package crmapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// Superuser-only backend wrappers. The backend enforces the privilege; these
// calls simply pass the admin scope through.

// ListTenants returns all tenants.
func (c *Client) ListTenants(ctx context.Context, scope domainsession.Scope) ([]model.Tenant, error) {
	var out []model.Tenant
	err := c.do(ctx, scope, request{method: "GET", path: "/admin/tenants/"}, &out)
	return out, err
}

// TenantInput carries the writable fields of a tenant.
type TenantInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// CreateTenant creates a tenant.
func (c *Client) CreateTenant(ctx context.Context, scope domainsession.Scope, in TenantInput) (model.Tenant, error) {
	var out model.Tenant
	err := c.do(ctx, scope, request{method: "POST", path: "/admin/tenants/", body: in}, &out)
	return out, err
}

// UpdateTenant updates a tenant.
func (c *Client) UpdateTenant(ctx context.Context, scope domainsession.Scope, id int64, in TenantInput) (model.Tenant, error) {
	var out model.Tenant
	err := c.do(ctx, scope, request{method: "PUT", path: fmt.Sprintf("/admin/tenants/%d", id), body: in}, &out)
	return out, err
}

// DeleteTenant deletes a tenant.
func (c *Client) DeleteTenant(ctx context.Context, scope domainsession.Scope, id int64) error {
	return c.do(ctx, scope, request{method: "DELETE", path: fmt.Sprintf("/admin/tenants/%d", id)}, nil)
}

// ListUsers returns all users across tenants.
func (c *Client) ListUsers(ctx context.Context, scope domainsession.Scope) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, scope, request{method: "GET", path: "/admin_users/users/"}, &out)
	return out, err
}

// UserInput carries the writable fields of a user for admin management.
type UserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	FullName    string `json:"full_name"`
	TenantID    *int64 `json:"tenant_id,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser *bool  `json:"is_superuser,omitempty"`
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, scope domainsession.Scope, in UserInput) (model.User, error) {
	var out model.User
	err := c.do(ctx, scope, request{method: "POST", path: "/admin_users/users/", body: in}, &out)
	return out, err
}

// UpdateUser updates a user.
func (c *Client) UpdateUser(ctx context.Context, scope domainsession.Scope, id int64, in UserInput) (model.User, error) {
	var out model.User
	err := c.do(ctx, scope, request{method: "PUT", path: fmt.Sprintf("/admin_users/users/%d", id), body: in}, &out)
	return out, err
}

// DeleteUser deletes a user.
func (c *Client) DeleteUser(ctx context.Context, scope domainsession.Scope, id int64) error {
	return c.do(ctx, scope, request{method: "DELETE", path: fmt.Sprintf("/admin_users/users/%d", id)}, nil)
}

// tenantOverride builds the explicit header used by admin per-tenant
// browsing: an admin chooses a tenant to look at, so the scoping header is
// attached deliberately rather than by the shaping rules (which never scope
// admin requests implicitly).
func tenantOverride(tenantID string) http.Header {
	h := http.Header{}
	h.Set(HeaderTenantID, tenantID)
	return h
}

// AdminListContacts returns the chosen tenant's contacts for an admin scope.
func (c *Client) AdminListContacts(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Contact, error) {
	var out []model.Contact
	err := c.do(ctx, scope, request{
		method: "GET",
		path:   "/admin/crm/contacts/",
		header: tenantOverride(tenantID),
	}, &out)
	return out, err
}

// AdminListLeads returns the chosen tenant's leads for an admin scope.
func (c *Client) AdminListLeads(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Lead, error) {
	var out []model.Lead
	err := c.do(ctx, scope, request{
		method: "GET",
		path:   "/admin/crm/leads/",
		header: tenantOverride(tenantID),
	}, &out)
	return out, err
}

// AdminListOpportunities returns the chosen tenant's opportunities for an admin scope.
func (c *Client) AdminListOpportunities(ctx context.Context, scope domainsession.Scope, tenantID string) ([]model.Opportunity, error) {
	var out []model.Opportunity
	err := c.do(ctx, scope, request{
		method: "GET",
		path:   "/admin/crm/opportunities/",
		header: tenantOverride(tenantID),
	}, &out)
	return out, err
}
