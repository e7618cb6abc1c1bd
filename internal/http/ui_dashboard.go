package httpx

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/apexcrm/crm-console/internal/domain/model"
)

func dashboardMeta() PageMeta {
	return PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard}
}

// Dashboard serves the landing page with headline counts and the freshest
// records from each CRM collection. The three backend fetches run
// concurrently; the scope snapshot is taken once before any of them start.
// GET /.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())

	var (
		contacts []model.Contact
		leads    []model.Lead
		opps     []model.Opportunity
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		contacts, err = h.ContactSvc.ListContacts(ctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = h.LeadSvc.ListLeads(ctx, scope)
		return err
	})
	g.Go(func() error {
		var err error
		opps, err = h.OppSvc.ListOpportunities(ctx, scope)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load dashboard data", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: dashboardMeta()})
		return
	}

	openLeads := 0
	for _, l := range leads {
		if l.Status != model.LeadStatusLost {
			openLeads++
		}
	}

	var pipeline float64
	for _, o := range opps {
		if o.Stage == model.StageClosedWon || o.Stage == model.StageClosedLost {
			continue
		}
		if o.Amount != nil {
			pipeline += *o.Amount
		}
	}

	data := NewTemplateData(r, dashboardMeta()).
		With("ContactCount", len(contacts)).
		With("LeadCount", len(leads)).
		With("OpenLeadCount", openLeads).
		With("OpportunityCount", len(opps)).
		With("PipelineAmount", pipeline).
		With("RecentContacts", headContacts(contacts, 5)).
		With("RecentLeads", headLeads(leads, 5)).
		With("RecentOpportunities", headOpportunities(opps, 5)).
		Build()
	h.renderPage(w, r, data)
}

func headContacts(items []model.Contact, n int) []model.Contact {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func headLeads(items []model.Lead, n int) []model.Lead {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func headOpportunities(items []model.Opportunity, n int) []model.Opportunity {
	if len(items) > n {
		return items[:n]
	}
	return items
}
