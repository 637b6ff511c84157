// Package policy is the single place role checks live.  Every gated
// operation in the handlers goes through one of these predicates;
// none of them has side effects and a denied check always means
// "refuse quietly" (HTTP 403 or no-op), never a panic.
//
// Role ownership follows the moderation-centric mapping: MODERATOR
// owns listing CRUD, comment visibility and comment locking; ADMIN
// owns account management only (lock/unlock, USER<->MODERATOR role
// changes) and has no listing privileges of its own.
package policy

import "github.com/minhngvn/scholarship-hub/internal/model"

// CanManageScholarships reports whether the role may create, update
// or delete listings and lock comment posting on them.
func CanManageScholarships(r model.Role) bool {
	return r == model.RoleModerator
}

// CanModerateComments reports whether the role may hide or unhide
// individual comments and see hidden ones.
func CanModerateComments(r model.Role) bool {
	return r == model.RoleModerator
}

// CanManageUsers reports whether the role may lock accounts and
// reassign roles between USER and MODERATOR.
func CanManageUsers(r model.Role) bool {
	return r == model.RoleAdmin
}

// CanPostComment reports whether the identity may post a comment on
// the listing: it must be authenticated, not locked, and the listing
// must not have comment posting locked.
func CanPostComment(u *model.User, s *model.Scholarship) bool {
	if u == nil || s == nil {
		return false
	}
	return !u.IsLocked && !s.CommentsLocked
}

// CanLockUser reports whether actor may toggle target's lock flag.
// An administrator may never touch another administrator and may not
// lock their own account.
func CanLockUser(actor, target *model.User) bool {
	if actor == nil || target == nil || !CanManageUsers(actor.Role) {
		return false
	}
	if target.Role == model.RoleAdmin {
		return false
	}
	return actor.ID != target.ID
}

// CanChangeRole reports whether actor may set target's role to
// newRole.  The reassignment path only ever moves accounts between
// USER and MODERATOR; ADMIN can be neither granted nor revoked here.
func CanChangeRole(actor, target *model.User, newRole model.Role) bool {
	if actor == nil || target == nil || !CanManageUsers(actor.Role) {
		return false
	}
	if target.Role == model.RoleAdmin {
		return false
	}
	return newRole == model.RoleUser || newRole == model.RoleModerator
}
