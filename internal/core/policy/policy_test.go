package policy

import (
	"testing"

	"clubhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func actor(id uint, role domain.Role) domain.Actor {
	return domain.Actor{ID: id, Role: role}
}

func TestCanListUsers(t *testing.T) {
	assert.True(t, CanListUsers(actor(1, domain.RoleOwner)))
	assert.True(t, CanListUsers(actor(2, domain.RoleOffice)))
	assert.False(t, CanListUsers(actor(3, domain.RoleManager)))
	assert.False(t, CanListUsers(actor(4, domain.RoleMember)))
}

func TestCanUpdateUser(t *testing.T) {
	tests := []struct {
		name       string
		actor      domain.Actor
		targetID   uint
		targetRole domain.Role
		want       bool
	}{
		{"owner edits anyone", actor(1, domain.RoleOwner), 4, domain.RoleManager, true},
		{"owner edits self", actor(1, domain.RoleOwner), 1, domain.RoleOwner, true},
		{"office edits self", actor(2, domain.RoleOffice), 2, domain.RoleOffice, true},
		{"office edits member", actor(2, domain.RoleOffice), 4, domain.RoleMember, true},
		{"office edits manager", actor(2, domain.RoleOffice), 3, domain.RoleManager, false},
		{"office edits other office", actor(2, domain.RoleOffice), 5, domain.RoleOffice, false},
		{"office edits owner", actor(2, domain.RoleOffice), 1, domain.RoleOwner, false},
		{"manager edits self", actor(3, domain.RoleManager), 3, domain.RoleManager, true},
		{"manager edits member", actor(3, domain.RoleManager), 4, domain.RoleMember, false},
		{"member edits self", actor(4, domain.RoleMember), 4, domain.RoleMember, true},
		{"member edits other member", actor(4, domain.RoleMember), 5, domain.RoleMember, false},
		{"member edits owner", actor(4, domain.RoleMember), 1, domain.RoleOwner, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanUpdateUser(tt.actor, tt.targetID, tt.targetRole))
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	owner := actor(1, domain.RoleOwner)

	assert.True(t, CanDeleteUser(owner, 4, domain.RoleMember))
	assert.True(t, CanDeleteUser(owner, 3, domain.RoleManager))

	// The owner record is untouchable, even by the owner themselves
	assert.False(t, CanDeleteUser(owner, 1, domain.RoleOwner))

	assert.False(t, CanDeleteUser(actor(2, domain.RoleOffice), 4, domain.RoleMember))
	assert.False(t, CanDeleteUser(actor(3, domain.RoleManager), 4, domain.RoleMember))
	assert.False(t, CanDeleteUser(actor(4, domain.RoleMember), 5, domain.RoleMember))
}

func TestEventPolicies(t *testing.T) {
	assert.True(t, CanCreateEvent(actor(1, domain.RoleOwner)))
	assert.True(t, CanCreateEvent(actor(2, domain.RoleOffice)))
	assert.True(t, CanCreateEvent(actor(3, domain.RoleManager)))
	assert.False(t, CanCreateEvent(actor(4, domain.RoleMember)))

	const createdBy = 3
	assert.True(t, CanUpdateEvent(actor(1, domain.RoleOwner), createdBy))
	assert.True(t, CanUpdateEvent(actor(3, domain.RoleManager), createdBy))
	assert.False(t, CanUpdateEvent(actor(7, domain.RoleManager), createdBy))
	assert.False(t, CanUpdateEvent(actor(2, domain.RoleOffice), createdBy))
	assert.False(t, CanUpdateEvent(actor(createdBy, domain.RoleMember), createdBy))

	assert.True(t, CanDeleteEvent(actor(1, domain.RoleOwner)))
	assert.False(t, CanDeleteEvent(actor(3, domain.RoleManager)))
}

func TestDiscussionPolicies(t *testing.T) {
	const authorID = 4

	assert.True(t, CanEditDiscussion(actor(authorID, domain.RoleMember), authorID))
	assert.True(t, CanEditDiscussion(actor(1, domain.RoleOwner), authorID))
	assert.True(t, CanEditDiscussion(actor(2, domain.RoleOffice), authorID))
	assert.False(t, CanEditDiscussion(actor(3, domain.RoleManager), authorID))
	assert.False(t, CanEditDiscussion(actor(5, domain.RoleMember), authorID))

	assert.True(t, CanDeleteDiscussion(actor(authorID, domain.RoleMember), authorID))
	assert.True(t, CanDeleteDiscussion(actor(1, domain.RoleOwner), authorID))
	assert.False(t, CanDeleteDiscussion(actor(2, domain.RoleOffice), authorID))
	assert.False(t, CanDeleteDiscussion(actor(5, domain.RoleMember), authorID))

	assert.True(t, CanPinDiscussion(actor(1, domain.RoleOwner)))
	assert.True(t, CanPinDiscussion(actor(2, domain.RoleOffice)))
	assert.False(t, CanPinDiscussion(actor(3, domain.RoleManager)))
	assert.False(t, CanPinDiscussion(actor(4, domain.RoleMember)))
}

func TestCanIssueSessionCode(t *testing.T) {
	assert.True(t, CanIssueSessionCode(actor(1, domain.RoleOwner)))
	assert.True(t, CanIssueSessionCode(actor(3, domain.RoleManager)))
	assert.False(t, CanIssueSessionCode(actor(2, domain.RoleOffice)))
	assert.False(t, CanIssueSessionCode(actor(4, domain.RoleMember)))
}

func TestArticlePolicies(t *testing.T) {
	assert.True(t, CanCreateArticle(actor(1, domain.RoleOwner)))
	assert.True(t, CanCreateArticle(actor(3, domain.RoleManager)))
	assert.False(t, CanCreateArticle(actor(2, domain.RoleOffice)))
	assert.False(t, CanCreateArticle(actor(4, domain.RoleMember)))

	const authorID = 3
	assert.True(t, CanManageArticle(actor(authorID, domain.RoleManager), authorID))
	assert.True(t, CanManageArticle(actor(1, domain.RoleOwner), authorID))
	assert.False(t, CanManageArticle(actor(7, domain.RoleManager), authorID))
}
