package crmapi

// Package crmapi is the outbound client for the CRM backend REST API. It is
// a pass-through layer: every request is shaped once (bearer credential,
// plus a tenant-scoping header under the conditions below) and every
// response is checked only for the authentication-failure status. Payload
// interpretation beyond decoding belongs to the backend and the handlers.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/apexcrm/crm-console/internal/errors"
	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// HeaderTenantID is the tenant-scoping header consumed by the backend.
const HeaderTenantID = "X-Tenant-ID"

// tenantScopedSegment marks backend paths whose authorization model expects
// a tenant-scoping header from non-admin callers.
const tenantScopedSegment = "/crm/"

// Config groups construction parameters for Client.
type Config struct {
	// BaseURL is the backend API base, including the version prefix.
	BaseURL string
	// Timeout bounds each backend call. No retries are attempted; a failed
	// request surfaces immediately to its caller.
	Timeout time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the CRM backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	// onUnauthorized runs once per authentication-failure response, before
	// the error is returned to the caller. The bootstrap wires session
	// teardown here so an expired credential invalidates the session no
	// matter which call discovered it.
	onUnauthorized func(ctx context.Context)
}

// NewClient constructs a backend client. Callers should pass a sanitized config.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		logger:  logger,
	}
}

// SetUnauthorizedHook registers the callback invoked on authentication
// failures. Must be called during wiring, before the client serves requests.
func (c *Client) SetUnauthorizedHook(hook func(ctx context.Context)) {
	c.onUnauthorized = hook
}

// IsTenantScopedPath reports whether the backend path expects tenant scoping
// from non-admin callers.
func IsTenantScopedPath(path string) bool {
	return strings.Contains(path, tenantScopedSegment)
}

// request describes a single backend call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// header carries explicit per-call headers, applied after scope shaping
	// (the admin per-tenant browse endpoints set X-Tenant-ID this way).
	header http.Header
}

// applyScope shapes the outgoing request from the scope snapshot:
//  1. attach the bearer credential when a token is present;
//  2. attach the tenant-scoping header only when the path is tenant-scoped,
//     the scope is not admin, and a tenant id is known. A missing tenant id
//     does not fail the request client-side; the server is the authority.
//
// Admin scopes never receive the tenant header here, even if stale tenant
// state exists elsewhere (the Scope snapshot is already cleared, this is the
// second line of defense).
func applyScope(req *http.Request, scope domainsession.Scope) {
	if scope.Token != "" {
		req.Header.Set("Authorization", "Bearer "+scope.Token)
	}
	if !scope.Admin && scope.TenantID != "" && IsTenantScopedPath(req.URL.Path) {
		req.Header.Set(HeaderTenantID, scope.TenantID)
	}
}

// do executes one backend call. The scope is a snapshot captured by the
// caller before any suspension point; do never reads session state itself.
// When out is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, scope domainsession.Scope, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("create backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	applyScope(req, scope)
	for k, vs := range r.header {
		req.Header[k] = vs
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "CRM backend unreachable")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close backend response body", "error", cerr)
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return apperrors.Unauthorized(detailFrom(resp, "authentication required"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFrom(resp, r)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "decode backend response for %s %s", r.method, r.path)
	}
	return nil
}

// errorFrom maps a non-2xx backend response onto the application error
// taxonomy, preserving the server-provided detail message when present.
func (c *Client) errorFrom(resp *http.Response, r request) error {
	detail := detailFrom(resp, fmt.Sprintf("backend returned %s", resp.Status))

	c.logger.Warn("backend request failed",
		slog.String("method", r.method),
		slog.String("path", r.path),
		slog.Int("status", resp.StatusCode),
	)

	switch resp.StatusCode {
	case http.StatusForbidden:
		return apperrors.Forbidden(detail)
	case http.StatusNotFound:
		return apperrors.NotFound(detail)
	case http.StatusConflict:
		return apperrors.Conflict(detail)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Validation(detail)
	default:
		return apperrors.Internal(detail)
	}
}

// detailFrom extracts the backend's {"detail": "..."} message, falling back
// when the body is absent or not in that shape.
func detailFrom(resp *http.Response, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Detail == "" {
		return fallback
	}
	return payload.Detail
}
