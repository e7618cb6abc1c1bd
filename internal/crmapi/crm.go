package crmapi

import (
	"context"
	"fmt"

	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// Tenant-scoped CRM resource wrappers. Each call passes the caller's scope
// snapshot through the shaping pipeline; none of them read session state.

// ListContacts returns the contacts visible to the scope's tenant.
func (c *Client) ListContacts(ctx context.Context, scope domainsession.Scope) ([]model.Contact, error) {
	var out []model.Contact
	err := c.do(ctx, scope, request{method: "GET", path: "/crm/contacts/"}, &out)
	return out, err
}

// GetContact returns a single contact.
func (c *Client) GetContact(ctx context.Context, scope domainsession.Scope, id int64) (model.Contact, error) {
	var out model.Contact
	err := c.do(ctx, scope, request{method: "GET", path: fmt.Sprintf("/crm/contacts/%d", id)}, &out)
	return out, err
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, scope domainsession.Scope, in model.ContactInput) (model.Contact, error) {
	var out model.Contact
	err := c.do(ctx, scope, request{method: "POST", path: "/crm/contacts/", body: in}, &out)
	return out, err
}

// UpdateContact updates a contact.
func (c *Client) UpdateContact(ctx context.Context, scope domainsession.Scope, id int64, in model.ContactInput) (model.Contact, error) {
	var out model.Contact
	err := c.do(ctx, scope, request{method: "PUT", path: fmt.Sprintf("/crm/contacts/%d", id), body: in}, &out)
	return out, err
}

// DeleteContact deletes a contact.
func (c *Client) DeleteContact(ctx context.Context, scope domainsession.Scope, id int64) error {
	return c.do(ctx, scope, request{method: "DELETE", path: fmt.Sprintf("/crm/contacts/%d", id)}, nil)
}

// ListLeads returns the leads visible to the scope's tenant.
func (c *Client) ListLeads(ctx context.Context, scope domainsession.Scope) ([]model.Lead, error) {
	var out []model.Lead
	err := c.do(ctx, scope, request{method: "GET", path: "/crm/leads/"}, &out)
	return out, err
}

// GetLead returns a single lead.
func (c *Client) GetLead(ctx context.Context, scope domainsession.Scope, id int64) (model.Lead, error) {
	var out model.Lead
	err := c.do(ctx, scope, request{method: "GET", path: fmt.Sprintf("/crm/leads/%d", id)}, &out)
	return out, err
}

// CreateLead creates a lead.
func (c *Client) CreateLead(ctx context.Context, scope domainsession.Scope, in model.LeadInput) (model.Lead, error) {
	var out model.Lead
	err := c.do(ctx, scope, request{method: "POST", path: "/crm/leads/", body: in}, &out)
	return out, err
}

// UpdateLead updates a lead.
func (c *Client) UpdateLead(ctx context.Context, scope domainsession.Scope, id int64, in model.LeadInput) (model.Lead, error) {
	var out model.Lead
	err := c.do(ctx, scope, request{method: "PUT", path: fmt.Sprintf("/crm/leads/%d", id), body: in}, &out)
	return out, err
}

// DeleteLead deletes a lead.
func (c *Client) DeleteLead(ctx context.Context, scope domainsession.Scope, id int64) error {
	return c.do(ctx, scope, request{method: "DELETE", path: fmt.Sprintf("/crm/leads/%d", id)}, nil)
}

// ListOpportunities returns the opportunities visible to the scope's tenant.
func (c *Client) ListOpportunities(ctx context.Context, scope domainsession.Scope) ([]model.Opportunity, error) {
	var out []model.Opportunity
	err := c.do(ctx, scope, request{method: "GET", path: "/crm/opportunities/"}, &out)
	return out, err
}

// GetOpportunity returns a single opportunity.
func (c *Client) GetOpportunity(ctx context.Context, scope domainsession.Scope, id int64) (model.Opportunity, error) {
	var out model.Opportunity
	err := c.do(ctx, scope, request{method: "GET", path: fmt.Sprintf("/crm/opportunities/%d", id)}, &out)
	return out, err
}

// CreateOpportunity creates an opportunity.
func (c *Client) CreateOpportunity(ctx context.Context, scope domainsession.Scope, in model.OpportunityInput) (model.Opportunity, error) {
	var out model.Opportunity
	err := c.do(ctx, scope, request{method: "POST", path: "/crm/opportunities/", body: in}, &out)
	return out, err
}

// UpdateOpportunity updates an opportunity.
func (c *Client) UpdateOpportunity(ctx context.Context, scope domainsession.Scope, id int64, in model.OpportunityInput) (model.Opportunity, error) {
	var out model.Opportunity
	err := c.do(ctx, scope, request{method: "PUT", path: fmt.Sprintf("/crm/opportunities/%d", id), body: in}, &out)
	return out, err
}

// DeleteOpportunity deletes an opportunity.
func (c *Client) DeleteOpportunity(ctx context.Context, scope domainsession.Scope, id int64) error {
	return c.do(ctx, scope, request{method: "DELETE", path: fmt.Sprintf("/crm/opportunities/%d", id)}, nil)
}
