// Package policy is the single source of truth for authorization decisions.
//
// Every mutating operation on users, events, discussions and attendance
// sessions consults one of these functions before touching the store. The
// functions are pure: they look only at the actor's identity/role and the
// minimal facts about the target resource, and they never have side effects.
//
// Role summary:
//   - owner: unrestricted, seeded once at startup, cannot be deleted or demoted
//   - office: administers member-role users, pins discussions
//   - manager: creates/manages events, issues attendance codes
//   - member: default self-registered role
package policy

import "clubhub/internal/core/domain"

// CanListUsers reports whether the actor may list all users.
func CanListUsers(actor domain.Actor) bool {
	return actor.Role == domain.RoleOwner || actor.Role == domain.RoleOffice
}

// CanUpdateUser reports whether the actor may update the target user.
//
// Permitted when the actor is updating themselves, when an office user
// targets a member, or when the actor is the owner. The owner profile is
// never editable by anyone else.
func CanUpdateUser(actor domain.Actor, targetID uint, targetRole domain.Role) bool {
	if targetRole == domain.RoleOwner && actor.Role != domain.RoleOwner {
		return false
	}
	switch actor.Role {
	case domain.RoleOwner:
		return true
	case domain.RoleOffice:
		return actor.ID == targetID || targetRole == domain.RoleMember
	default:
		return actor.ID == targetID
	}
}

// CanDeleteUser reports whether the actor may delete the target user.
// Only the owner deletes users, never the owner record and never themselves.
func CanDeleteUser(actor domain.Actor, targetID uint, targetRole domain.Role) bool {
	if actor.Role != domain.RoleOwner {
		return false
	}
	if targetRole == domain.RoleOwner {
		return false
	}
	return actor.ID != targetID
}

// CanCreateEvent reports whether the actor may create events.
func CanCreateEvent(actor domain.Actor) bool {
	switch actor.Role {
	case domain.RoleOwner, domain.RoleOffice, domain.RoleManager:
		return true
	}
	return false
}

// CanUpdateEvent reports whether the actor may edit the event's fields.
// Office and manager users may only edit events they created; the owner
// may edit any event.
func CanUpdateEvent(actor domain.Actor, createdBy uint) bool {
	if !CanCreateEvent(actor) {
		return false
	}
	return actor.Role == domain.RoleOwner || createdBy == actor.ID
}

// CanDeleteEvent reports whether the actor may delete events.
func CanDeleteEvent(actor domain.Actor) bool {
	return actor.Role == domain.RoleOwner
}

// CanEditDiscussion reports whether the actor may edit a discussion entry.
func CanEditDiscussion(actor domain.Actor, authorID uint) bool {
	if actor.ID == authorID {
		return true
	}
	return actor.Role == domain.RoleOwner || actor.Role == domain.RoleOffice
}

// CanDeleteDiscussion reports whether the actor may delete a discussion entry.
func CanDeleteDiscussion(actor domain.Actor, authorID uint) bool {
	return actor.ID == authorID || actor.Role == domain.RoleOwner
}

// CanPinDiscussion reports whether the actor may pin/unpin discussions.
func CanPinDiscussion(actor domain.Actor) bool {
	return actor.Role == domain.RoleOwner || actor.Role == domain.RoleOffice
}

// CanIssueSessionCode reports whether the actor may open an attendance session.
func CanIssueSessionCode(actor domain.Actor) bool {
	return actor.Role == domain.RoleOwner || actor.Role == domain.RoleManager
}

// CanCreateArticle reports whether the actor may publish articles.
func CanCreateArticle(actor domain.Actor) bool {
	return actor.Role == domain.RoleManager || actor.Role == domain.RoleOwner
}

// CanManageArticle reports whether the actor may edit or delete the article.
func CanManageArticle(actor domain.Actor, authorID uint) bool {
	return actor.ID == authorID || actor.Role == domain.RoleOwner
}
