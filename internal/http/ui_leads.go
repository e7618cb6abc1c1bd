package httpx

import (
	"net/http"

	"github.com/apexcrm/crm-console/internal/domain/model"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func leadListMeta() PageMeta {
	return PageMeta{Title: "Leads", PageTitle: "Leads", CurrentPage: PageLeads}
}

func leadFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Lead", PageTitle: "Edit Lead", CurrentPage: PageLeadForm}
	}
	return PageMeta{Title: "New Lead", PageTitle: "New Lead", CurrentPage: PageLeadForm}
}

// leadFormOptions carries the select-box options every lead form needs.
func leadFormOptions(b *TemplateDataBuilder) *TemplateDataBuilder {
	return b.
		With("Statuses", model.LeadStatuses()).
		With("Sources", model.LeadSources())
}

// Leads serves the lead list page.
// GET /leads.
func (h *UIHandlers) Leads(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	leads, err := h.LeadSvc.ListLeads(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load leads", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: leadListMeta()})
		return
	}

	data := NewTemplateData(r, leadListMeta()).
		With("Leads", leads).
		Build()
	h.renderPage(w, r, data)
}

// LeadNew renders the create form.
// GET /leads/new.
func (h *UIHandlers) LeadNew(w http.ResponseWriter, r *http.Request) {
	data := leadFormOptions(NewTemplateData(r, leadFormMeta(FormModeCreate))).
		With("Mode", string(FormModeCreate)).
		With("Lead", model.Lead{Status: model.LeadStatusNew}).
		Build()
	h.renderPage(w, r, data)
}

// LeadEdit renders the edit form for an existing lead.
// GET /leads/{id}/edit.
func (h *UIHandlers) LeadEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	lead, err := h.LeadSvc.GetLead(r.Context(), scope, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: leadFormMeta(FormModeEdit)})
		return
	}

	data := leadFormOptions(NewTemplateData(r, leadFormMeta(FormModeEdit))).
		With("Mode", string(FormModeEdit)).
		With("Lead", lead).
		Build()
	h.renderPage(w, r, data)
}

// parseLeadForm parses and validates the lead form.
func parseLeadForm(r *http.Request) (model.LeadInput, map[string]string) {
	fieldErrors := map[string]string{}
	in := model.LeadInput{
		Title:       formString(r, "title"),
		Description: formString(r, "description"),
		Status:      formString(r, "status"),
		Source:      formString(r, "source"),
		ContactID:   formInt64Ptr(r, "contact_id", fieldErrors),
	}

	if in.Title == "" {
		fieldErrors["title"] = "Title is required."
	}
	if in.Status == "" {
		in.Status = model.LeadStatusNew
	} else if !oneOf(in.Status, model.LeadStatuses()) {
		fieldErrors["status"] = "Unknown status."
	}
	if in.Source != "" && !oneOf(in.Source, model.LeadSources()) {
		fieldErrors["source"] = "Unknown source."
	}
	return in, fieldErrors
}

func (h *UIHandlers) renderLeadFormError(w http.ResponseWriter, r *http.Request, opts ErrorOpts, mode FormMode, lead model.Lead) {
	opts.PageMeta = leadFormMeta(mode)
	opts.Data = map[string]any{
		"Mode":     string(mode),
		"Lead":     lead,
		"Statuses": model.LeadStatuses(),
		"Sources":  model.LeadSources(),
	}
	h.RenderError(opts)
}

// LeadCreate handles POST from the create form.
// POST /leads.
func (h *UIHandlers) LeadCreate(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parseLeadForm(r)
	if len(fieldErrors) > 0 {
		h.renderLeadFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeCreate, leadFromInput(0, in))
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.LeadSvc.CreateLead(r.Context(), scope, in); err != nil {
		h.renderLeadFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeCreate, leadFromInput(0, in))
		return
	}

	h.redirectAfterWrite(w, r, "/leads")
}

// LeadUpdate handles POST from the edit form.
// POST /leads/{id}.
func (h *UIHandlers) LeadUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	in, fieldErrors := parseLeadForm(r)
	if len(fieldErrors) > 0 {
		h.renderLeadFormError(w, r, ErrorOpts{W: w, R: r, FieldErrors: fieldErrors}, FormModeEdit, leadFromInput(id, in))
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.LeadSvc.UpdateLead(r.Context(), scope, id, in); err != nil {
		h.renderLeadFormError(w, r, ErrorOpts{W: w, R: r, Err: err}, FormModeEdit, leadFromInput(id, in))
		return
	}

	h.redirectAfterWrite(w, r, "/leads")
}

// LeadDelete removes a lead and returns to the list.
// POST /leads/{id}/delete.
func (h *UIHandlers) LeadDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	if err := h.LeadSvc.DeleteLead(r.Context(), scope, id); err != nil && !apperrors.IsNotFound(err) {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: leadListMeta()})
		return
	}

	h.redirectAfterWrite(w, r, "/leads")
}

func leadFromInput(id int64, in model.LeadInput) model.Lead {
	return model.Lead{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Source:      in.Source,
		ContactID:   in.ContactID,
	}
}
