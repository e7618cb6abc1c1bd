package model

import "encoding/json"

// StrictBool is a bool that unmarshals only the JSON literal true as true.
// Any other value (strings like "true", numbers, null, or an absent field)
// decodes to false. The backend may omit or loosely type privilege flags, and
// the console must not promote a session on anything short of literal true.
type StrictBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *StrictBool) UnmarshalJSON(data []byte) error {
	*b = string(data) == "true"
	return nil
}

// MarshalJSON implements json.Marshaler.
func (b StrictBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// Bool returns the plain boolean value.
func (b StrictBool) Bool() bool { return bool(b) }

// User is the user record as exposed by the CRM backend. The console only
// displays and forwards it; the backend owns its semantics.
type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	IsActive    bool       `json:"is_active"`
	IsSuperuser StrictBool `json:"is_superuser"`
	TenantID    *int64     `json:"tenant_id"`
	CreatedAt   string     `json:"created_at"`
}
