package models

import "fmt"

// Role is the ordered permission tier of a user or board.
// Higher values grant every permission of the tiers below.
type Role int

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdministrator
	RoleOwner
)

// Valid reports whether r is one of the four defined tiers. A role outside
// the range coming from storage is a programming error, not user input.
func (r Role) Valid() bool {
	return r >= RoleUser && r <= RoleOwner
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleModerator:
		return "Moderator"
	case RoleAdministrator:
		return "Administrator"
	case RoleOwner:
		return "Owner"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}
