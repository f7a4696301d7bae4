package models

// Identity is the resolved caller derived from a verified token: just the
// id and role carried in the claims. It is trusted as-is for the lifetime
// of a request; the user record is not re-fetched per call.
type Identity struct {
	ID   uint64
	Role Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanModify is the single ownership rule for resource mutation: admins may
// modify anything, everyone else only what they own.
func (i Identity) CanModify(ownerID uint64) bool {
	return i.IsAdmin() || i.ID == ownerID
}
