// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User is the profile row that gives an account its name and role. The id
// is the account id.
type User struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

const (
	RoleAdmin      = "admin"
	RoleMaintainer = "maintainer"
	RoleSupervisor = "supervisor"
)

// IsInvitableRole reports whether role may be granted through an invitation.
// Supervisors are promoted from an existing profile.
func IsInvitableRole(role string) bool {
	return role == RoleAdmin || role == RoleMaintainer
}
