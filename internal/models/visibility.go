package models

// SoftDeletable is satisfied by every model embedding Tombstone.
type SoftDeletable interface {
	IsDeleted() bool
}

// VisibleTo is the tombstone predicate: deleted rows are hidden unless the
// caller is privileged and asked for them.
func VisibleTo(caller Caller, entity SoftDeletable) bool {
	return !entity.IsDeleted() || caller.WantsDeleted()
}

// InScope is the tenant predicate. A nil owner means global, in scope for
// everyone. The two predicates compose with AND; neither may be skipped.
func InScope(caller Caller, ownerBusinessID *int) bool {
	if ownerBusinessID == nil {
		return true
	}
	if caller.AllBusinesses() {
		return true
	}
	return caller.BusinessID != nil && *caller.BusinessID == *ownerBusinessID
}

// Accessible composes both predicates for an entity owned by one business.
func Accessible(caller Caller, entity SoftDeletable, ownerBusinessID *int) bool {
	return VisibleTo(caller, entity) && InScope(caller, ownerBusinessID)
}
