package httpx

import (
	"net/http"

	"github.com/apexcrm/crm-console/internal/domain/model"
	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

func contactListMeta() PageMeta {
	return PageMeta{Title: "Contacts", PageTitle: "Contacts", CurrentPage: PageContacts}
}

func contactFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Contact", PageTitle: "Edit Contact", CurrentPage: PageContactForm}
	}
	return PageMeta{Title: "New Contact", PageTitle: "New Contact", CurrentPage: PageContactForm}
}

// Contacts serves the contact list page.
// GET /contacts.
func (h *UIHandlers) Contacts(w http.ResponseWriter, r *http.Request) {
	scope := ScopeFromContext(r.Context())
	contacts, err := h.ContactSvc.ListContacts(r.Context(), scope)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "failed to load contacts", "error", err)
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: contactListMeta()})
		return
	}

	data := NewTemplateData(r, contactListMeta()).
		With("Contacts", contacts).
		Build()
	h.renderPage(w, r, data)
}

// ContactNew renders the create form.
// GET /contacts/new.
func (h *UIHandlers) ContactNew(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, contactFormMeta(FormModeCreate)).
		With("Mode", string(FormModeCreate)).
		Build()
	h.renderPage(w, r, data)
}

// ContactEdit renders the edit form for an existing contact.
// GET /contacts/{id}/edit.
func (h *UIHandlers) ContactEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	contact, err := h.ContactSvc.GetContact(r.Context(), scope, id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.NotFound(w, r)
			return
		}
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: contactFormMeta(FormModeEdit)})
		return
	}

	data := NewTemplateData(r, contactFormMeta(FormModeEdit)).
		With("Mode", string(FormModeEdit)).
		With("Contact", contact).
		Build()
	h.renderPage(w, r, data)
}

// parseContactForm parses and validates the contact form.
func parseContactForm(r *http.Request) (model.ContactInput, map[string]string) {
	fieldErrors := map[string]string{}
	in := model.ContactInput{
		FirstName: formString(r, "first_name"),
		LastName:  formString(r, "last_name"),
		Email:     formString(r, "email"),
		Phone:     formString(r, "phone"),
		Company:   formString(r, "company"),
		Title:     formString(r, "title"),
	}
	if in.FirstName == "" && in.LastName == "" {
		fieldErrors["first_name"] = "A first or last name is required."
	}
	return in, fieldErrors
}

// ContactCreate handles POST from the create form.
// POST /contacts.
func (h *UIHandlers) ContactCreate(w http.ResponseWriter, r *http.Request) {
	in, fieldErrors := parseContactForm(r)
	if len(fieldErrors) > 0 {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: fieldErrors,
			PageMeta:    contactFormMeta(FormModeCreate),
			Data:        map[string]any{"Mode": string(FormModeCreate), "Contact": contactFromInput(0, in)},
		})
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.ContactSvc.CreateContact(r.Context(), scope, in); err != nil {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			PageMeta: contactFormMeta(FormModeCreate),
			Data:     map[string]any{"Mode": string(FormModeCreate), "Contact": contactFromInput(0, in)},
		})
		return
	}

	h.redirectAfterWrite(w, r, "/contacts")
}

// ContactUpdate handles POST from the edit form.
// POST /contacts/{id}.
func (h *UIHandlers) ContactUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	in, fieldErrors := parseContactForm(r)
	if len(fieldErrors) > 0 {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			FieldErrors: fieldErrors,
			PageMeta:    contactFormMeta(FormModeEdit),
			Data:        map[string]any{"Mode": string(FormModeEdit), "Contact": contactFromInput(id, in)},
		})
		return
	}

	scope := ScopeFromContext(r.Context())
	if _, err := h.ContactSvc.UpdateContact(r.Context(), scope, id, in); err != nil {
		h.RenderError(ErrorOpts{
			W: w, R: r,
			Err:      err,
			PageMeta: contactFormMeta(FormModeEdit),
			Data:     map[string]any{"Mode": string(FormModeEdit), "Contact": contactFromInput(id, in)},
		})
		return
	}

	h.redirectAfterWrite(w, r, "/contacts")
}

// ContactDelete removes a contact and returns to the list.
// POST /contacts/{id}/delete.
func (h *UIHandlers) ContactDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	scope := ScopeFromContext(r.Context())
	if err := h.ContactSvc.DeleteContact(r.Context(), scope, id); err != nil && !apperrors.IsNotFound(err) {
		h.RenderError(ErrorOpts{W: w, R: r, Err: err, PageMeta: contactListMeta()})
		return
	}

	h.redirectAfterWrite(w, r, "/contacts")
}

// contactFromInput echoes submitted values back into the form on re-render.
func contactFromInput(id int64, in model.ContactInput) model.Contact {
	return model.Contact{
		ID:        id,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Company:   in.Company,
		Title:     in.Title,
	}
}

// redirectAfterWrite sends the browser back to the list after a successful
// create, update, or delete.
func (h *UIHandlers) redirectAfterWrite(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		SetHXRedirect(w, path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
