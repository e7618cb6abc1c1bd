package model

// Opportunity stages as defined by the backend.
const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// OpportunityStages returns the valid opportunity stages in pipeline order.
func OpportunityStages() []string {
	return []string{
		StageProspecting,
		StageQualification,
		StageProposal,
		StageNegotiation,
		StageClosedWon,
		StageClosedLost,
	}
}

// Opportunity is a CRM opportunity record.
type Opportunity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Stage       string   `json:"stage"`
	Probability int      `json:"probability"`
	CloseDate   string   `json:"close_date,omitempty"`
	ContactID   *int64   `json:"contact_id,omitempty"`
	LeadID      *int64   `json:"lead_id,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
	Contact     *Contact `json:"contact,omitempty"`
	Lead        *Lead    `json:"lead,omitempty"`
}

// OpportunityInput carries the writable fields of an opportunity.
type OpportunityInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Stage       string   `json:"stage"`
	Probability int      `json:"probability"`
	CloseDate   string   `json:"close_date,omitempty"`
	ContactID   *int64   `json:"contact_id,omitempty"`
	LeadID      *int64   `json:"lead_id,omitempty"`
}
