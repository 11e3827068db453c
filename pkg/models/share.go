package models

import "time"

// Share roles. Edit is required to run merge analysis or execution
// against the owner's tree.
const (
	ShareRoleView = "view"
	ShareRoleEdit = "edit"
)

// TreeShare grants grantee access to owner's tree.
type TreeShare struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	GranteeID string    `json:"grantee_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidShareRole(r string) bool {
	return r == ShareRoleView || r == ShareRoleEdit
}
