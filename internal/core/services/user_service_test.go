package services

import (
	"context"
	"testing"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo *fakeUserRepo, handle string, role domain.Role) *models.User {
	t.Helper()
	hashed, err := password.Hash("password123")
	require.NoError(t, err)

	user := &models.User{
		FullName: "User " + handle,
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: hashed,
		Role:     string(role),
		OwnerKey: models.OwnerKeyFor(string(role)),
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func strptr(s string) *string { return &s }

func TestUpdateUserAuthorizationMatrix(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  domain.Role
		targetRole domain.Role
		self       bool
		allowed    bool
	}{
		{"member edits self", domain.RoleMember, domain.RoleMember, true, true},
		{"member edits other member", domain.RoleMember, domain.RoleMember, false, false},
		{"member edits manager", domain.RoleMember, domain.RoleManager, false, false},
		{"manager edits self", domain.RoleManager, domain.RoleManager, true, true},
		{"manager edits member", domain.RoleManager, domain.RoleMember, false, false},
		{"office edits self", domain.RoleOffice, domain.RoleOffice, true, true},
		{"office edits member", domain.RoleOffice, domain.RoleMember, false, true},
		{"office edits manager", domain.RoleOffice, domain.RoleManager, false, false},
		{"office edits owner", domain.RoleOffice, domain.RoleOwner, false, false},
		{"owner edits member", domain.RoleOwner, domain.RoleMember, false, true},
		{"owner edits manager", domain.RoleOwner, domain.RoleManager, false, true},
		{"owner edits office", domain.RoleOwner, domain.RoleOffice, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := NewUserService(repo, nil, "root")

			actorUser := seedUser(t, repo, "actor", tt.actorRole)
			target := actorUser
			if !tt.self {
				target = seedUser(t, repo, "target", tt.targetRole)
			}

			actor := domain.Actor{ID: actorUser.ID, Handle: actorUser.Handle, Role: tt.actorRole}
			_, err := svc.UpdateUser(context.Background(), actor, target.ID, &UpdateUserInput{
				FullName: strptr("Renamed"),
			})

			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden)
			}
		})
	}
}

func TestUpdateUserRequiresAField(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")
	user := seedUser(t, repo, "alice", domain.RoleMember)

	actor := domain.Actor{ID: user.ID, Role: domain.RoleMember}
	_, err := svc.UpdateUser(context.Background(), actor, user.ID, &UpdateUserInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateUserHandleReverified(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeVerifier("newhandle"), "root")
	user := seedUser(t, repo, "alice", domain.RoleMember)
	actor := domain.Actor{ID: user.ID, Role: domain.RoleMember}

	// Unknown handle is rejected
	_, err := svc.UpdateUser(context.Background(), actor, user.ID, &UpdateUserInput{
		Handle: strptr("stranger"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)

	// Known handle goes through and picks up the provider rating
	updated, err := svc.UpdateUser(context.Background(), actor, user.ID, &UpdateUserInput{
		Handle: strptr("newhandle"),
	})
	require.NoError(t, err)
	assert.Equal(t, "newhandle", updated.Handle)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, 1500, *updated.Rating)
}

func TestUpdateUserHandleConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")
	seedUser(t, repo, "taken", domain.RoleMember)
	user := seedUser(t, repo, "alice", domain.RoleMember)
	actor := domain.Actor{ID: user.ID, Role: domain.RoleMember}

	_, err := svc.UpdateUser(context.Background(), actor, user.ID, &UpdateUserInput{
		Handle: strptr("taken"),
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestDeleteUserOwnerOnly(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")

	owner := seedUser(t, repo, "root", domain.RoleOwner)
	office := seedUser(t, repo, "office", domain.RoleOffice)
	member := seedUser(t, repo, "member", domain.RoleMember)

	officeActor := domain.Actor{ID: office.ID, Role: domain.RoleOffice}
	ownerActor := domain.Actor{ID: owner.ID, Role: domain.RoleOwner}

	// Only the owner deletes
	err := svc.DeleteUser(context.Background(), officeActor, member.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The owner record is protected, even from the owner
	err = svc.DeleteUser(context.Background(), ownerActor, owner.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Owner deleting a member works
	err = svc.DeleteUser(context.Background(), ownerActor, member.ID)
	require.NoError(t, err)

	_, err = svc.GetUserByID(context.Background(), member.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")
	user := seedUser(t, repo, "alice", domain.RoleMember)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrOldPasswordWrong)

	err = svc.ChangePassword(context.Background(), user.ID, "password123", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.ChangePassword(context.Background(), user.ID, "password123", "newpassword1")
	require.NoError(t, err)
	assert.True(t, password.Verify("newpassword1", repo.users[user.ID].Password))
}

func TestAttendanceDashboards(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")

	office := seedUser(t, repo, "office", domain.RoleOffice)
	m1 := seedUser(t, repo, "m1", domain.RoleMember)
	m2 := seedUser(t, repo, "m2", domain.RoleMember)
	mgr := seedUser(t, repo, "mgr", domain.RoleManager)
	repo.attendance[m1.ID] = 2
	repo.attendance[m2.ID] = 5
	repo.attendance[mgr.ID] = 1

	officeActor := domain.Actor{ID: office.ID, Role: domain.RoleOffice}

	members, err := svc.MembersWithAttendance(context.Background(), officeActor)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "m2", members[0].Handle)
	assert.Equal(t, int64(5), members[0].AttendanceCount)
	assert.Equal(t, "m1", members[1].Handle)

	managers, err := svc.ManagersWithAttendance(context.Background(), officeActor)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, "mgr", managers[0].Handle)

	// Members cannot see the dashboards
	memberActor := domain.Actor{ID: m1.ID, Role: domain.RoleMember}
	_, err = svc.MembersWithAttendance(context.Background(), memberActor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListUsersForbiddenForMembers(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, nil, "root")
	member := seedUser(t, repo, "member", domain.RoleMember)

	_, err := svc.ListUsers(context.Background(), domain.Actor{ID: member.ID, Role: domain.RoleMember}, &ListUsersInput{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	office := seedUser(t, repo, "office", domain.RoleOffice)
	out, err := svc.ListUsers(context.Background(), domain.Actor{ID: office.ID, Role: domain.RoleOffice}, &ListUsersInput{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), out.Total)
}
