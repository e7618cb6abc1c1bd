package httpx

import (
	"net/http"

	"github.com/apexcrm/crm-console/internal/domain/model"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func oppListMeta() PageMeta {
	return PageMeta{Title: "Opportunities", PageTitle: "Opportunities", CurrentPage: PageOpportunities}
}

func oppFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Opportunity", PageTitle: "Edit Opportunity", CurrentPage: PageOpportunityForm}
	}
	return PageMeta{Title: "New Opportunity", PageTitle: "New Opportunity", CurrentPage: PageOpportunityForm}
}

// Opportunities serves the opportunity list page.
// GET /opportunities.
func (h *UIHandlers) Opportunities(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	opps, err := h.OppSvc.ListOpportunities(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load opportunities", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: oppListMeta()})
		return
	}

	data := NewTemplateData(r, oppListMeta()).
		With("Opportunities", opps).
		Build()
	h.renderPage(w, r, data)
}

// OpportunityNew renders the create form.
// GET /opportunities/new.
func (h *UIHandlers) OpportunityNew(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, oppFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		With("Opportunity", model.Opportunity{Stage: model.StageProspecting}).
		With("Stages", model.OpportunityStages()).
		Build()
	h.renderPage(w, r, data)
}

// OpportunityEdit renders the edit form for an existing opportunity.
// GET /opportunities/{id}/edit.
func (h *UIHandlers) OpportunityEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	opp, err := h.OppSvc.GetOpportunity(r.Context(), scope, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: oppFormMeta(FormModeEdit)})
		return
	}

	data := NewTemplateData(r, oppFormMeta(FormModeEdit)).
		With("Mode", string(FormModeEdit)).
		With("Opportunity", opp).
		With("Stages", model.OpportunityStages()).
		Build()
	h.renderPage(w, r, data)
}

// parseOpportunityForm parses and validates the opportunity form.
func parseOpportunityForm(r *http.Request) (model.OpportunityInput, map[string]string) {
	fieldErrors := map[string]string{}
	in := model.OpportunityInput{
		Name:        formString(r, "name"),
		Description: formString(r, "description"),
		Amount:      formFloat64Ptr(r, "amount", fieldErrors),
		Stage:       formString(r, "stage"),
		Probability: formInt(r, "probability", 0, fieldErrors),
		CloseDate:   formString(r, "close_date"),
		ContactID:   formInt64Ptr(r, "contact_id", fieldErrors),
		LeadID:      formInt64Ptr(r, "lead_id", fieldErrors),
	}

	if in.Name == "" {
		fieldErrors["name"] = "Name is required."
	}
	if in.Stage == "" {
		in.Stage = model.StageProspecting
	} else if !oneOf(in.Stage, model.OpportunityStages()) {
		fieldErrors["stage"] = "Unknown stage."
	}
	if in.Probability < 0 || in.Probability > 100 {
		fieldErrors["probability"] = "Probability must be between 0 and 100."
	}
	if in.Amount != nil && *in.Amount < 0 {
		fieldErrors["amount"] = "Amount cannot be negative."
	}
	return in, fieldErrors
}

func (h *UIHandlers) renderOppFormError(w http.ResponseWriter, r *http.Request, opts ErrorOpts, mode FormMode, opp model.Opportunity) {
	opts.PageMeta = oppFormMeta(mode)
	opts.Data = map[string]any{
		"Mode":        string(mode),
		"Opportunity": opp,
		"Stages":      model.OpportunityStages(),
	}
	h.RenderError(opts)
}

// OpportunityCreate handles POST from the create form.
// POST /opportunities.
func (h *UIHandlers) OpportunityCreate(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parseOpportunityForm(r)
	if len(fieldErrors) > 0 {
		h.renderOppFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeCreate, oppFromInput(0, in))
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.OppSvc.CreateOpportunity(r.Context(), scope, in); err != nil {
		h.renderOppFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeCreate, oppFromInput(0, in))
		return
	}

	h.redirectAfterWrite(w, r, "/opportunities")
}

// OpportunityUpdate handles POST from the edit form.
// POST /opportunities/{id}.
func (h *UIHandlers) OpportunityUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	in, fieldErrors := parseOpportunityForm(r)
	if len(fieldErrors) > 0 {
		h.renderOppFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeEdit, oppFromInput(id, in))
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.OppSvc.UpdateOpportunity(r.Context(), scope, id, in); err != nil {
		h.renderOppFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeEdit, oppFromInput(id, in))
		return
	}

	h.redirectAfterWrite(w, r, "/opportunities")
}

// OpportunityDelete removes an opportunity and returns to the list.
// POST /opportunities/{id}/delete.
func (h *UIHandlers) OpportunityDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	if err := h.OppSvc.DeleteOpportunity(r.Context(), scope, id); err != nil && !apperrors.IsNotFound(err) {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: oppListMeta()})
		return
	}

	h.redirectAfterWrite(w, r, "/opportunities")
}

func oppFromInput(id int64, in model.OpportunityInput) model.Opportunity {
	return model.Opportunity{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Amount:      in.Amount,
		Stage:       in.Stage,
		Probability: in.Probability,
		CloseDate:   in.CloseDate,
		ContactID:   in.ContactID,
		LeadID:      in.LeadID,
	}
}
