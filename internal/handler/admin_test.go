package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

func newAdminFixture() (*AdminHandler, *fakeUsers, model.User) {
	users := newFakeUsers()
	admin := users.add(model.User{Username: "root", Role: model.RoleAdmin})
	return NewAdminHandler(users), users, admin
}

func lockRequest(t *testing.T, h *AdminHandler, actor *model.User, username string, locked bool) int {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPut, "/v1/admin/users/"+username+"/lock",
		map[string]bool{"locked": locked}, actor)
	c.SetParamNames("username")
	c.SetParamValues(username)
	if err := h.ToggleLock(c); err != nil {
		t.Fatalf("toggle lock: %v", err)
	}
	return rec.Code
}

func roleRequest(t *testing.T, h *AdminHandler, actor *model.User, username, role string) int {
	t.Helper()
	c, rec := newTestContext(t, http.MethodPut, "/v1/admin/users/"+username+"/role",
		map[string]string{"role": role}, actor)
	c.SetParamNames("username")
	c.SetParamValues(username)
	if err := h.UpdateRole(c); err != nil {
		t.Fatalf("update role: %v", err)
	}
	return rec.Code
}

func TestListUsersExcludesAdmins(t *testing.T) {
	h, users, admin := newAdminFixture()
	users.add(model.User{Username: "alice", Role: model.RoleUser})
	users.add(model.User{Username: "bob", Role: model.RoleModerator})

	c, rec := newTestContext(t, http.MethodGet, "/v1/admin/users", nil, &admin)
	if err := h.ListUsers(c); err != nil {
		t.Fatalf("list users: %v", err)
	}
	mustStatus(t, rec, http.StatusOK)

	var resp struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Users) != 2 {
		t.Fatalf("users = %+v, admins must not be listed", resp.Users)
	}
	for _, u := range resp.Users {
		if u.Username == "root" {
			t.Fatal("admin account listed")
		}
	}
}

func TestToggleLock(t *testing.T) {
	h, users, admin := newAdminFixture()
	users.add(model.User{Username: "alice", Role: model.RoleUser})

	if code := lockRequest(t, h, &admin, "alice", true); code != http.StatusOK {
		t.Fatalf("lock status = %d", code)
	}
	got, _ := users.GetByUsername(context.Background(), "alice")
	if !got.IsLocked {
		t.Fatal("lock not applied")
	}

	if code := lockRequest(t, h, &admin, "alice", false); code != http.StatusOK {
		t.Fatalf("unlock status = %d", code)
	}
	got, _ = users.GetByUsername(context.Background(), "alice")
	if got.IsLocked {
		t.Fatal("unlock not applied")
	}
}

func TestAdminCannotLockAdmins(t *testing.T) {
	h, users, admin := newAdminFixture()
	other := users.add(model.User{Username: "root2", Role: model.RoleAdmin})

	if code := lockRequest(t, h, &admin, "root2", true); code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", code)
	}
	got, _ := users.GetByID(context.Background(), other.ID)
	if got.IsLocked {
		t.Fatal("admin account locked")
	}

	// Self-lock is denied too.
	if code := lockRequest(t, h, &admin, "root", true); code != http.StatusForbidden {
		t.Fatalf("self lock status = %d, want 403", code)
	}
}

func TestUpdateRoleBetweenUserAndModerator(t *testing.T) {
	h, users, admin := newAdminFixture()
	users.add(model.User{Username: "alice", Role: model.RoleUser})

	if code := roleRequest(t, h, &admin, "alice", "MODERATOR"); code != http.StatusOK {
		t.Fatalf("promote status = %d", code)
	}
	got, _ := users.GetByUsername(context.Background(), "alice")
	if got.Role != model.RoleModerator {
		t.Fatalf("role = %s", got.Role)
	}

	if code := roleRequest(t, h, &admin, "alice", "USER"); code != http.StatusOK {
		t.Fatalf("demote status = %d", code)
	}
	got, _ = users.GetByUsername(context.Background(), "alice")
	if got.Role != model.RoleUser {
		t.Fatalf("role = %s", got.Role)
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	h, users, admin := newAdminFixture()
	users.add(model.User{Username: "bob", Role: model.RoleModerator})

	// A typo must be a 400, never a silent demotion to USER.
	if code := roleRequest(t, h, &admin, "bob", "SUPERVISOR"); code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	got, _ := users.GetByUsername(context.Background(), "bob")
	if got.Role != model.RoleModerator {
		t.Fatalf("role = %s, unknown input must not change it", got.Role)
	}
}

func TestUpdateRoleNeverTouchesAdmin(t *testing.T) {
	h, users, admin := newAdminFixture()
	users.add(model.User{Username: "root2", Role: model.RoleAdmin})
	users.add(model.User{Username: "alice", Role: model.RoleUser})

	// Demoting an admin is refused.
	if code := roleRequest(t, h, &admin, "root2", "USER"); code != http.StatusForbidden {
		t.Fatalf("demote admin status = %d, want 403", code)
	}
	got, _ := users.GetByUsername(context.Background(), "root2")
	if got.Role != model.RoleAdmin {
		t.Fatalf("role = %s", got.Role)
	}

	// Promoting to admin is refused as well.
	if code := roleRequest(t, h, &admin, "alice", "ADMIN"); code != http.StatusForbidden {
		t.Fatalf("promote to admin status = %d, want 403", code)
	}
	got, _ = users.GetByUsername(context.Background(), "alice")
	if got.Role != model.RoleUser {
		t.Fatalf("role = %s", got.Role)
	}
}

func TestAdminActionsOnUnknownUser(t *testing.T) {
	h, _, admin := newAdminFixture()

	if code := lockRequest(t, h, &admin, "nobody", true); code != http.StatusNotFound {
		t.Fatalf("lock status = %d, want 404", code)
	}
	if code := roleRequest(t, h, &admin, "nobody", "MODERATOR"); code != http.StatusNotFound {
		t.Fatalf("role status = %d, want 404", code)
	}
}
