package httpx

import (
	"net/http"
	"strings"
)

// IsHTMX reports whether the request was initiated by htmx (Hx-Request: true).
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// WantsPartial returns true when the handler should return only the main fragment (not full layout).
// Rule: partial for all HTMX requests, including history restores.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r)
}

// SetHXRedirect instructs htmx to redirect the browser to the given URL.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXPushURL pushes the given URL into the browser history for the new content.
func SetHXPushURL(w http.ResponseWriter, url string) { w.Header().Set("Hx-Push-Url", url) }
