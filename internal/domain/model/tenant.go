package model

// Tenant is an isolated customer partition within the CRM. Contacts, leads,
// and opportunities each belong to exactly one tenant.
type Tenant struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	SchemaName string `json:"schema_name"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}
