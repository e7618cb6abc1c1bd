package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageLogin    = "login"
	PageRegister = "register"

	PageDashboard = "dashboard"

	// CRM pages.
	PageContacts        = "contacts"
	PageContactForm     = "contact-form"
	PageLeads           = "leads"
	PageLeadForm        = "lead-form"
	PageOpportunities   = "opportunities"
	PageOpportunityForm = "opportunity-form"

	// Superuser-only admin pages.
	PageAdminTenants    = "admin-tenants"
	PageAdminTenantForm = "admin-tenant-form"
	PageAdminUsers      = "admin-users"
	PageAdminUserForm   = "admin-user-form"
	PageAdminCRM        = "admin-crm"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

// Content templates are defined once and reused to avoid per-call allocations.
//
//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageLogin:           "login-content",
	PageRegister:        "register-content",
	PageDashboard:       "dashboard-content",
	PageContacts:        "contacts-content",
	PageContactForm:     "contact-form-content",
	PageLeads:           "leads-content",
	PageLeadForm:        "lead-form-content",
	PageOpportunities:   "opportunities-content",
	PageOpportunityForm: "opportunity-form-content",
	PageAdminTenants:    "admin-tenants-content",
	PageAdminTenantForm: "admin-tenant-form-content",
	PageAdminUsers:      "admin-users-content",
	PageAdminUserForm:   "admin-user-form-content",
	PageAdminCRM:        "admin-crm-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}

// Template directory paths used when loading templates from disk.
const (
	TemplatePathFromRoot = "web/templates"       // From project root
	TemplatePathFromTest = "../../web/templates" // From internal/http test files
)
