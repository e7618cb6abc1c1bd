package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	domainsession "github.com/apexcrm/crm-console/internal/domain/session"
)

// SessionResolver restores a stored session by its identifier.
// A nil session with a nil error means no usable session exists.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (*domainsession.Session, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// ResolveSession returns a middleware that restores the stored session for the
// request, if one exists, and places it in the request context. Requests without
// a usable session continue unauthenticated; gating happens in RequireSession
// and RequireAdmin so public pages can still observe who is signed in.
func ResolveSession(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFromRequest(r, resolver, cookieName)
			if session != nil {
				ctx := SetSessionInContext(r.Context(), session)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession returns a middleware that requires an authenticated session.
// Browser requests are redirected to the login page; API-style requests get a
// 401 JSON response.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok || !session.IsAuthenticated() {
			denyUnauthenticated(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin returns a middleware that requires a superuser session.
// Non-superusers get 403; unauthenticated requests are treated like RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := SessionFromContext(r.Context())
		if !ok || !session.IsAuthenticated() {
			denyUnauthenticated(w, r)
			return
		}
		if !session.IsAdmin() {
			if isBrowserRequest(r) {
				http.Error(w, "Access Denied: superuser privileges required", http.StatusForbidden)
				return
			}
			WriteError(w, ErrorParams{
				Code:    http.StatusForbidden,
				ErrCode: "insufficient_permissions",
				Err:     errors.New("superuser privileges required"),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionFromRequest retrieves and validates a session from the request cookie.
func sessionFromRequest(r *http.Request, resolver SessionResolver, cookieName string) *domainsession.Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := resolver.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if isBrowserRequest(r) {
		redirectToLogin(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// redirectToLogin sends browser requests to the login page. HTMX requests get
// a client-side redirect so a partial swap never replaces only a fragment of
// the signed-out page.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		SetHXRedirect(w, "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - static assets are never browser requests
// 2. HTMX requests are considered browser requests
// 3. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}
