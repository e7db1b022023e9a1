package access

import "github.com/google/uuid"

// Principal is the authenticated caller as seen by the service layer.
// EmployeeID is the cashier identity that sessions and orders are keyed on.
type Principal struct {
	AccountID  uuid.UUID
	EmployeeID uuid.UUID
	BusinessID *uuid.UUID
	BranchID   *uuid.UUID
	Username   string
	Caps       Set
}

// Can reports whether the principal holds any of caps.
func (p Principal) Can(caps ...Capability) bool {
	return p.Caps.Any(caps...)
}
