package domain

// Laundry is a tenant: one laundry business whose orders, services and
// clients are scoped independently of every other laundry.
type Laundry struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	BillingEnabled bool   `json:"billing_enabled"`
	SMSEnabled     bool   `json:"sms_enabled"`
	EmailEnabled   bool   `json:"email_enabled"`
}

// TenantContext is the laundry the session operates against plus the acting
// operator. OperatorID is the authenticated user's id, not a laundry id.
type TenantContext struct {
	Laundry    *Laundry `json:"laundry,omitempty"`
	OperatorID string   `json:"operatorId,omitempty"`
}

// LaundryID returns the active laundry id or "" when none is resolved.
func (t TenantContext) LaundryID() string {
	if t.Laundry == nil {
		return ""
	}
	return t.Laundry.ID
}

// Scope returns the explicit parameter object handed to tenant-scoped services.
func (t TenantContext) Scope() TenantScope {
	return TenantScope{LaundryID: t.LaundryID(), OperatorID: t.OperatorID}
}

// TenantScope carries the tenant identifiers every order and report call needs.
type TenantScope struct {
	LaundryID  string
	OperatorID string
}

// Resolved reports whether a laundry is bound to the scope.
func (s TenantScope) Resolved() bool {
	return s.LaundryID != ""
}
