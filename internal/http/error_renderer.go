package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/apexcrm/crm-console/internal/errors"
)

// ErrorOpts contains the options needed to render a form or page error.
type ErrorOpts struct {
	// W is the HTTP response writer
	W http.ResponseWriter
	// R is the HTTP request
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// FieldErrors contains field-level validation errors (field name → error message)
	FieldErrors map[string]string
	// PageMeta contains page metadata (title, current page, etc.)
	PageMeta PageMeta
	// Data contains additional template data, used to preserve form values on re-render
	Data map[string]any
	// StatusCode is the HTTP status code to set (optional, defaults to 200 for HTMX compatibility)
	StatusCode int
}

// RenderError re-renders the current page with error messaging. Expired
// credentials never reach the template: they reset the signed-in state and
// send the browser back to the login page instead.
func (h *UIHandlers) RenderError(opts ErrorOpts) {
	if apperrors.IsUnauthorized(opts.Err) {
		h.handleUnauthorized(opts.W, opts.R)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := processError(opts.Err)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	h.renderPage(opts.W, opts.R, builder.Build())
}

// handleUnauthorized resets the signed-in state after the backend rejected the
// session's credentials: the stored session record is removed, the cookie is
// expired, and the browser is sent to the login page.
func (h *UIHandlers) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := SessionIDFromContext(r.Context()); ok {
		if err := h.Sessions.Logout(r.Context(), sessionID); err != nil {
			h.logger().Warn("failed to clear rejected session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	redirectToLogin(w, r)
}

// clearSessionCookie expires the session cookie in the browser.
func (h *UIHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !h.IsDev,
	})
}

// processError maps an error to a user-friendly message. Returns empty string
// if err is nil.
func processError(err error) string {
	if err == nil {
		return ""
	}

	// Distinguish between timeout and cancellation for better UX
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	switch {
	case apperrors.IsValidation(err):
		return apperrors.Detail(err, errMsgFixBelow)
	case apperrors.IsConflict(err):
		return apperrors.Detail(err, "This value already exists. Please choose a different one.")
	case apperrors.IsNotFound(err):
		return "The requested record was not found."
	case apperrors.IsForbidden(err):
		return "You don't have permission to perform this action."
	case apperrors.IsUnavailable(err):
		return "The CRM backend is unreachable. Please try again shortly."
	default:
		return "An error occurred. Please try again."
	}
}
