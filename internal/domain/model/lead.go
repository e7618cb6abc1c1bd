package model

// Lead statuses as defined by the backend.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusLost      = "lost"
)

// LeadStatuses returns the valid lead statuses in display order.
func LeadStatuses() []string {
	return []string{LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost}
}

// LeadSources returns the valid lead sources in display order.
func LeadSources() []string {
	return []string{"website", "referral", "social_media", "advertising", "other"}
}

// Lead is a CRM lead record.
type Lead struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      string   `json:"status"`
	Source      string   `json:"source,omitempty"`
	ContactID   *int64   `json:"contact_id,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
}

// LeadInput carries the writable fields of a lead.
type LeadInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Source      string `json:"source,omitempty"`
	ContactID   *int64 `json:"contact_id,omitempty"`
}
