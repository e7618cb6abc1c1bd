package httpx

import (
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"

	crmconsole "github.com/apexcrm/crm-console"
	"github.com/apexcrm/crm-console/internal/crmapi"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	API          *crmapi.Client
	Sessions     SessionManager
	CookieName   string
	CookieDomain string
	IsDev        bool         // Development mode flag for hot reloading, etc.
	Logger       *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticHandler(services.IsDev))

	ui := setupUIHandlers(services)
	if ui != nil {
		registerUIRoutes(mux, ui)
		mux.Handle("/", http.HandlerFunc(ui.NotFound))
	}

	// Every request first restores its stored session so public pages can
	// observe who is signed in; gating happens per route group.
	return ResolveSession(services.Sessions, services.CookieName)(mux)
}

// setupUIHandlers creates UI handlers with the template renderer.
// In dev mode templates are loaded from disk for hot reloading; in production
// they come from the embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	var templateFS fs.FS
	if services.IsDev {
		templateFS = os.DirFS(TemplatePathFromRoot)
	} else {
		sub, err := fs.Sub(crmconsole.TemplateFS, "web/templates")
		if err != nil {
			log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
			sub = os.DirFS(TemplatePathFromRoot)
		}
		templateFS = sub
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:            tr,
		Sessions:     services.Sessions,
		ContactSvc:   services.API,
		LeadSvc:      services.API,
		OppSvc:       services.API,
		AdminSvc:     services.API,
		SignupSvc:    services.API,
		CookieName:   services.CookieName,
		CookieDomain: services.CookieDomain,
		IsDev:        services.IsDev,
		Logger:       services.Logger,
	}
}

func registerUIRoutes(mux *http.ServeMux, ui *UIHandlers) {
	// Public routes
	mux.HandleFunc("GET /login", ui.LoginPage)
	mux.HandleFunc("POST /login", ui.Login)
	mux.HandleFunc("GET /register", ui.RegisterPage)
	mux.HandleFunc("POST /register", ui.Register)
	mux.HandleFunc("POST /logout", ui.Logout)

	// Authenticated routes
	authed := func(h http.HandlerFunc) http.Handler { return RequireSession(h) }
	mux.Handle("GET /{$}", authed(ui.Dashboard))

	mux.Handle("GET /contacts", authed(ui.Contacts))
	mux.Handle("GET /contacts/new", authed(ui.ContactNew))
	mux.Handle("POST /contacts", authed(ui.ContactCreate))
	mux.Handle("GET /contacts/{id}/edit", authed(ui.ContactEdit))
	mux.Handle("POST /contacts/{id}", authed(ui.ContactUpdate))
	mux.Handle("POST /contacts/{id}/delete", authed(ui.ContactDelete))

	mux.Handle("GET /leads", authed(ui.Leads))
	mux.Handle("GET /leads/new", authed(ui.LeadNew))
	mux.Handle("POST /leads", authed(ui.LeadCreate))
	mux.Handle("GET /leads/{id}/edit", authed(ui.LeadEdit))
	mux.Handle("POST /leads/{id}", authed(ui.LeadUpdate))
	mux.Handle("POST /leads/{id}/delete", authed(ui.LeadDelete))

	mux.Handle("GET /opportunities", authed(ui.Opportunities))
	mux.Handle("GET /opportunities/new", authed(ui.OpportunityNew))
	mux.Handle("POST /opportunities", authed(ui.OpportunityCreate))
	mux.Handle("GET /opportunities/{id}/edit", authed(ui.OpportunityEdit))
	mux.Handle("POST /opportunities/{id}", authed(ui.OpportunityUpdate))
	mux.Handle("POST /opportunities/{id}/delete", authed(ui.OpportunityDelete))

	// Superuser-only routes
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdmin(h) }
	mux.Handle("GET /admin/tenants", admin(ui.AdminTenants))
	mux.Handle("GET /admin/tenants/new", admin(ui.AdminTenantNew))
	mux.Handle("POST /admin/tenants", admin(ui.AdminTenantCreate))
	mux.Handle("GET /admin/tenants/{id}/edit", admin(ui.AdminTenantEdit))
	mux.Handle("POST /admin/tenants/{id}", admin(ui.AdminTenantUpdate))
	mux.Handle("POST /admin/tenants/{id}/delete", admin(ui.AdminTenantDelete))

	mux.Handle("GET /admin/users", admin(ui.AdminUsers))
	mux.Handle("GET /admin/users/new", admin(ui.AdminUserNew))
	mux.Handle("POST /admin/users", admin(ui.AdminUserCreate))
	mux.Handle("GET /admin/users/{id}/edit", admin(ui.AdminUserEdit))
	mux.Handle("POST /admin/users/{id}", admin(ui.AdminUserUpdate))
	mux.Handle("POST /admin/users/{id}/delete", admin(ui.AdminUserDelete))

	mux.Handle("GET /admin/crm", admin(ui.AdminCRM))
}

// staticHandler serves /static/* assets.
func staticHandler(isDev bool) http.Handler {
	if isDev {
		return noCacheStatic(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	}

	staticSub, err := fs.Sub(crmconsole.StaticFS, "web/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		return noCacheStatic(http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticSub)))
}

// noCacheStatic disables caching so edits show up immediately in dev.
func noCacheStatic(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		handler.ServeHTTP(w, r)
	})
}
