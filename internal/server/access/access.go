// Package access centralizes every role comparison in the forum. All
// predicates are pure; a nil *models.User is the anonymous subject, which
// is distinct from an authenticated user holding the lowest role even
// though both pass the same visibility checks.
//
// Two comparison rules coexist and must not be mixed up: resource gates
// use >= (a Moderator may act on Moderator-level resources), while user
// management uses strictly greater (an Administrator may not change
// another Administrator). The strict rule lives only in CanManageUser.
package access

import (
	"fmt"

	"github.com/oakbb/oakboard/internal/server/models"
)

// subjectRole maps a possibly-anonymous subject to an effective role.
// Anonymous visitors see and do what the lowest tier can see.
func subjectRole(subject *models.User) models.Role {
	if subject == nil {
		return models.RoleUser
	}
	mustValid(subject.Role)
	return subject.Role
}

// CanView reports whether the subject may see a resource gated at the
// given role.
func CanView(subject *models.User, required models.Role) bool {
	mustValid(required)
	return subjectRole(subject) >= required
}

// CanMutateOwned reports whether the subject may modify or delete a
// resource it can view: the author always can, and so can any moderator
// or higher regardless of authorship.
func CanMutateOwned(subject *models.User, required models.Role, authorID int64) bool {
	if subject == nil || !CanView(subject, required) {
		return false
	}
	return subject.ID == authorID || subject.Role >= models.RoleModerator
}

// CanAdminister reports whether the subject holds at least min.
func CanAdminister(subject *models.User, min models.Role) bool {
	if subject == nil {
		return false
	}
	return CanView(subject, min)
}

// CanManageUser guards role changes, password resets, and account
// deletion: the subject must be an Administrator or higher AND hold a
// strictly greater role than the target. The strict comparison keeps
// peers from demoting each other and moderators from touching
// administrators.
func CanManageUser(subject, target *models.User) bool {
	if subject == nil || target == nil {
		return false
	}
	mustValid(target.Role)
	return subject.Role >= models.RoleAdministrator && subject.Role > target.Role
}

// CanChangeRole additionally restricts which tiers may manage a user's
// role; the gate itself is the same strict rule as CanManageUser.
func CanChangeRole(subject, target *models.User) bool {
	return CanManageUser(subject, target)
}

func mustValid(r models.Role) {
	if !r.Valid() {
		panic(fmt.Sprintf("access: invalid role %d", int(r)))
	}
}
