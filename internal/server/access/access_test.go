package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oakbb/oakboard/internal/server/models"
)

func user(id int64, role models.Role) *models.User {
	return &models.User{ID: id, Role: role}
}

func TestCanView(t *testing.T) {
	tests := []struct {
		name     string
		subject  *models.User
		required models.Role
		want     bool
	}{
		{"anonymous sees user-level", nil, models.RoleUser, true},
		{"anonymous blocked from moderator-level", nil, models.RoleModerator, false},
		{"user sees user-level", user(1, models.RoleUser), models.RoleUser, true},
		{"user blocked from admin-level", user(1, models.RoleUser), models.RoleAdministrator, false},
		{"moderator sees moderator-level", user(1, models.RoleModerator), models.RoleModerator, true},
		{"owner sees everything", user(1, models.RoleOwner), models.RoleAdministrator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanView(tt.subject, tt.required))
		})
	}
}

func TestCanMutateOwned(t *testing.T) {
	const authorID = int64(7)

	tests := []struct {
		name    string
		subject *models.User
		want    bool
	}{
		{"anonymous may not", nil, false},
		{"author may delete own reply", user(authorID, models.RoleUser), true},
		{"other user may not", user(8, models.RoleUser), false},
		{"moderator may regardless of authorship", user(9, models.RoleModerator), true},
		{"owner may regardless of authorship", user(10, models.RoleOwner), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanMutateOwned(tt.subject, models.RoleUser, authorID))
		})
	}
}

func TestCanMutateOwned_RequiresView(t *testing.T) {
	// The author of a reply in an admin-gated board loses access if their
	// role no longer clears the board gate.
	assert.False(t, CanMutateOwned(user(7, models.RoleUser), models.RoleAdministrator, 7))
}

func TestCanAdminister(t *testing.T) {
	assert.False(t, CanAdminister(nil, models.RoleModerator))
	assert.False(t, CanAdminister(user(1, models.RoleUser), models.RoleModerator))
	assert.True(t, CanAdminister(user(1, models.RoleModerator), models.RoleModerator))
	assert.True(t, CanAdminister(user(1, models.RoleOwner), models.RoleAdministrator))
}

func TestCanManageUser_StrictlyGreater(t *testing.T) {
	tests := []struct {
		name    string
		subject *models.User
		target  *models.User
		want    bool
	}{
		{"admin over moderator", user(1, models.RoleAdministrator), user(2, models.RoleModerator), true},
		{"admin over user", user(1, models.RoleAdministrator), user(2, models.RoleUser), true},
		{"admin may not manage admin peer", user(1, models.RoleAdministrator), user(2, models.RoleAdministrator), false},
		{"admin may not manage self", user(1, models.RoleAdministrator), user(1, models.RoleAdministrator), false},
		{"moderator may not manage anyone", user(1, models.RoleModerator), user(2, models.RoleUser), false},
		{"owner over admin", user(1, models.RoleOwner), user(2, models.RoleAdministrator), true},
		{"anonymous never", nil, user(2, models.RoleUser), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManageUser(tt.subject, tt.target))
			assert.Equal(t, tt.want, CanChangeRole(tt.subject, tt.target))
		})
	}
}

func TestInvalidRolePanics(t *testing.T) {
	assert.Panics(t, func() {
		CanView(user(1, models.Role(42)), models.RoleUser)
	})
	assert.Panics(t, func() {
		CanView(nil, models.Role(-1))
	})
}
