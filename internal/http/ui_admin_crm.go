package httpx

import (
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/apexcrm/crm-console/internal/domain/model"
)

func adminCRMMeta() PageMeta {
	return PageMeta{Title: "Tenant Data", PageTitle: "Tenant Data", CurrentPage: PageAdminCRM}
}

// AdminCRM lets a superuser browse any tenant's CRM records. The tenant is
// chosen explicitly through the ?tenant_id query parameter; without one only
// the tenant selector is shown.
// GET /admin/crm?tenant_id=N.
func (h *UIHandlers) AdminCRM(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())

	tenants, err := h.AdminSvc.ListTenants(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load tenants", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: adminCRMMeta()})
		return
	}

	tenantID := r.URL.Query().Get("tenant_id")
	builder := NewTemplateData(r, adminCRMMeta()).
		With("Tenants", tenants).
		With("SelectedTenantID", tenantID)

	if tenantID == "" {
		h.renderPage(w, r, builder.Build())
		return
	}
	if _, parseErr := strconv.ParseInt(tenantID, 10, 64); parseErr != nil {
		h.NotFound(w, r)
		return
	}

	var (
		contacts []model.Contact
		leads    []model.Lead
		opps     []model.Opportunity
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var fetchErr error
		contacts, fetchErr = h.AdminSvc.AdminListContacts(ctx, scope, tenantID)
		return fetchErr
	})
	g.Go(func() error {
		var fetchErr error
		leads, fetchErr = h.AdminSvc.AdminListLeads(ctx, scope, tenantID)
		return fetchErr
	})
	g.Go(func() error {
		var fetchErr error
		opps, fetchErr = h.AdminSvc.AdminListOpportunities(ctx, scope, tenantID)
		return fetchErr
	})

	if err := g.Wait(); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load tenant CRM data",
			"error", err, "tenant_id", tenantID)
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			PageMeta: adminCRMMeta(),
			Data:     map[string]any{"Tenants": tenants, "SelectedTenantID": tenantID},
		})
		return
	}

	data := builder.
		With("Contacts", contacts).
		With("Leads", leads).
		With("Opportunities", opps).
		Build()
	h.renderPage(w, r, data)
}
