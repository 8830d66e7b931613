package models

// Caller is the explicit per-request context every command and query takes.
// The web layer derives it from the session token; nothing in the core reads
// ambient authentication state.
type Caller struct {
	// Subject identifies the acting user, recorded on tombstones and
	// completion rows.
	Subject string `json:"subject"`

	// BusinessID is the tenant the caller operates as. Nil is only meaningful
	// for privileged callers and means "all businesses".
	BusinessID *int `json:"businessId"`

	IsPrivileged   bool `json:"isPrivileged"`
	IncludeDeleted bool `json:"includeDeleted"`
}

// AllBusinesses reports whether the caller is explicitly operating across
// every tenant. Only privileged callers may.
func (c Caller) AllBusinesses() bool {
	return c.IsPrivileged && c.BusinessID == nil
}

// WantsDeleted reports whether soft-deleted rows are visible to this caller.
// Requesting them without privilege is ignored, not an error.
func (c Caller) WantsDeleted() bool {
	return c.IsPrivileged && c.IncludeDeleted
}

// SystemCaller is the context background jobs run under, pinned to one
// business at a time.
func SystemCaller(businessID int) Caller {
	return Caller{
		Subject:      "system",
		BusinessID:   &businessID,
		IsPrivileged: true,
	}
}
