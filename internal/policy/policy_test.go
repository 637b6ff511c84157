package policy

import (
	"testing"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

func TestRoleOwnership(t *testing.T) {
	if !CanManageScholarships(model.RoleModerator) {
		t.Error("moderator should manage scholarships")
	}
	for _, r := range []model.Role{model.RoleGuest, model.RoleUser, model.RoleAdmin} {
		if CanManageScholarships(r) {
			t.Errorf("%s should not manage scholarships", r)
		}
	}

	if !CanModerateComments(model.RoleModerator) {
		t.Error("moderator should moderate comments")
	}
	if CanModerateComments(model.RoleAdmin) {
		t.Error("admin should not moderate comments")
	}

	if !CanManageUsers(model.RoleAdmin) {
		t.Error("admin should manage users")
	}
	for _, r := range []model.Role{model.RoleGuest, model.RoleUser, model.RoleModerator} {
		if CanManageUsers(r) {
			t.Errorf("%s should not manage users", r)
		}
	}
}

func TestCanPostComment(t *testing.T) {
	u := &model.User{ID: 1, Role: model.RoleUser}
	s := &model.Scholarship{ID: "scholarship-1"}

	if !CanPostComment(u, s) {
		t.Error("unlocked user on unlocked listing should be allowed")
	}
	if CanPostComment(nil, s) {
		t.Error("anonymous caller should be denied")
	}

	locked := *u
	locked.IsLocked = true
	if CanPostComment(&locked, s) {
		t.Error("locked account should be denied")
	}

	frozen := *s
	frozen.CommentsLocked = true
	if CanPostComment(u, &frozen) {
		t.Error("comments-locked listing should be denied")
	}
}

func TestAdminConstraints(t *testing.T) {
	admin := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}
	other := &model.User{ID: 2, Username: "johndoe", Role: model.RoleUser}
	peer := &model.User{ID: 3, Username: "root2", Role: model.RoleAdmin}

	if !CanLockUser(admin, other) {
		t.Error("admin should lock a regular user")
	}
	if CanLockUser(admin, peer) {
		t.Error("admin must never lock another admin")
	}
	if CanLockUser(admin, admin) {
		t.Error("admin must not lock own account")
	}
	if CanLockUser(other, admin) || CanLockUser(other, other) {
		t.Error("non-admin must not lock anyone")
	}

	if !CanChangeRole(admin, other, model.RoleModerator) {
		t.Error("admin should promote USER to MODERATOR")
	}
	if CanChangeRole(admin, other, model.RoleAdmin) {
		t.Error("role reassignment must never grant ADMIN")
	}
	if CanChangeRole(admin, peer, model.RoleUser) {
		t.Error("role reassignment must never demote an ADMIN")
	}
	if CanChangeRole(other, other, model.RoleModerator) {
		t.Error("non-admin must not change roles")
	}
}
