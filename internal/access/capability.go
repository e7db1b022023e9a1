// Package access defines the closed set of permission capabilities an
// authenticated principal may hold.
package access

import (
	"fmt"
	"sort"
	"strings"
)

// Capability is a single named permission. Capabilities are bit flags so a
// principal's permissions form a Set that can be intersected cheaply.
type Capability uint32

const (
	IsAdmin Capability = 1 << iota
	IsManager
	IsCashier
	CanAssignAccount
	CanGenReport
	CanEditRoles
	CanAddEmployee
	CanDeleteOrders
	CanDeleteEmployees
	CanAddExpenses
	CanViewOrders
	CanEditProducts
)

var names = map[Capability]string{
	IsAdmin:            "is_admin",
	IsManager:          "is_manager",
	IsCashier:          "is_cashier",
	CanAssignAccount:   "can_assign_account",
	CanGenReport:       "can_gen_report",
	CanEditRoles:       "can_edit_roles",
	CanAddEmployee:     "can_add_employee",
	CanDeleteOrders:    "can_delete_orders",
	CanDeleteEmployees: "can_delete_employees",
	CanAddExpenses:     "can_add_expenses",
	CanViewOrders:      "can_view_orders",
	CanEditProducts:    "can_edit_products",
}

var byName = func() map[string]Capability {
	m := make(map[string]Capability, len(names))
	for c, n := range names {
		m[n] = c
	}
	return m
}()

// adminGrants is what is_admin expands to. Role flags other than is_admin
// itself are not implied.
const adminGrants = CanAssignAccount | CanGenReport | CanEditRoles | CanAddEmployee |
	CanDeleteOrders | CanDeleteEmployees | CanAddExpenses | CanViewOrders | CanEditProducts

func (c Capability) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("capability(%d)", uint32(c))
}

// Set is a bit set of capabilities.
type Set uint32

// NewSet builds a Set, expanding is_admin to every grant.
func NewSet(caps ...Capability) Set {
	var s Set
	for _, c := range caps {
		s |= Set(c)
	}
	if s&Set(IsAdmin) != 0 {
		s |= Set(adminGrants)
	}
	return s
}

// Parse converts capability names into a Set. Unknown names are an error.
func Parse(list []string) (Set, error) {
	caps := make([]Capability, 0, len(list))
	for _, raw := range list {
		c, ok := byName[strings.TrimSpace(raw)]
		if !ok {
			return 0, fmt.Errorf("unknown capability %q", raw)
		}
		caps = append(caps, c)
	}
	return NewSet(caps...), nil
}

// Has reports whether every capability in caps is held.
func (s Set) Has(caps ...Capability) bool {
	want := Set(0)
	for _, c := range caps {
		want |= Set(c)
	}
	return s&want == want
}

// Any reports whether the intersection of s and caps is non-empty.
func (s Set) Any(caps ...Capability) bool {
	for _, c := range caps {
		if s&Set(c) != 0 {
			return true
		}
	}
	return false
}

// Names returns the sorted capability names held by s.
func (s Set) Names() []string {
	out := make([]string, 0, len(names))
	for c, n := range names {
		if s&Set(c) != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
