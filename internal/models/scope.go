package models

import "fmt"

// Scope is the tagged owner of a catalog entry: either global (visible to
// every business) or a single business. It replaces raw nullable-FK checks so
// resolution and consolidation logic can branch on it explicitly.
type Scope struct {
	businessID *int
}

func GlobalScope() Scope {
	return Scope{}
}

func TenantScope(businessID int) Scope {
	return Scope{businessID: &businessID}
}

// ScopeOf builds a Scope from the nullable owning-business column.
func ScopeOf(businessID *int) Scope {
	if businessID == nil {
		return GlobalScope()
	}
	return TenantScope(*businessID)
}

func (s Scope) IsGlobal() bool {
	return s.businessID == nil
}

// BusinessID returns the owning business and whether the scope is tenant-owned.
func (s Scope) BusinessID() (int, bool) {
	if s.businessID == nil {
		return 0, false
	}
	return *s.businessID, true
}

func (s Scope) Equal(other Scope) bool {
	if s.IsGlobal() || other.IsGlobal() {
		return s.IsGlobal() && other.IsGlobal()
	}
	return *s.businessID == *other.businessID
}

func (s Scope) String() string {
	if s.businessID == nil {
		return "global"
	}
	return fmt.Sprintf("business:%d", *s.businessID)
}

func (s Scope) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}
