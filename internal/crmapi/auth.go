package crmapi

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/apexcrm/crm-console/internal/domain/model"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
	"github.com/apexcrm/crm-console/internal/ports"
)

// loginResponse is the raw wire shape of the backend login endpoint. Every
// field except access_token is optional; is_superuser is captured raw so
// that only the JSON literal true promotes the session.
type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	UserID      *int64          `json:"user_id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	TenantID    *int64          `json:"tenant_id"`
	IsSuperuser json.RawMessage `json:"is_superuser"`
}

// Login authenticates against the backend. The backend takes credentials as
// query parameters on a bodyless POST. A response missing access_token is
// rejected rather than coerced into a half-valid result.
func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("password", password)

	var resp loginResponse
	err := c.do(ctx, domainsession.Scope{}, request{
		method: "POST",
		path:   "/auth/login/",
		query:  q,
	}, &resp)
	if err != nil {
		return ports.LoginResult{}, err
	}

	if resp.AccessToken == "" {
		return ports.LoginResult{}, apperrors.Internal("login response missing access token")
	}

	res := ports.LoginResult{
		AccessToken: resp.AccessToken,
		Email:       resp.Email,
		FullName:    resp.FullName,
		TenantID:    resp.TenantID,
		IsSuperuser: string(resp.IsSuperuser) == "true",
	}
	if resp.UserID != nil {
		res.UserID = *resp.UserID
	}
	return res, nil
}

// RegisterTenant creates a tenant through the self-serve registration
// endpoint. No credential is required.
func (c *Client) RegisterTenant(ctx context.Context, name string) (model.Tenant, error) {
	var tenant model.Tenant
	err := c.do(ctx, domainsession.Scope{}, request{
		method: "POST",
		path:   "/auth/tenants/",
		body:   map[string]string{"name": name},
	}, &tenant)
	return tenant, err
}

// RegisterUserInput carries the fields for self-serve user registration.
type RegisterUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	TenantID int64  `json:"tenant_id"`
}

// RegisterUser creates a user bound to a tenant through the self-serve
// registration endpoint.
func (c *Client) RegisterUser(ctx context.Context, in RegisterUserInput) (model.User, error) {
	var user model.User
	err := c.do(ctx, domainsession.Scope{}, request{
		method: "POST",
		path:   "/auth/users/",
		body:   in,
	}, &user)
	return user, err
}
