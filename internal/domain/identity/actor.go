package identity

import "github.com/google/uuid"

// Actor is the authenticated caller identity passed into every operation.
// AdminID is the practice the caller belongs to (equal to ID for admins).
type Actor struct {
	ID      uuid.UUID
	AdminID uuid.UUID
	Role    Role
	Name    string
}

// IsAdmin returns true when the caller owns the practice
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns returns true when the caller's practice owns a record with the given owner ID
func (a Actor) Owns(ownerID uuid.UUID) bool {
	return a.AdminID == ownerID
}
