package services

import (
	"context"
	"testing"

	"clubhub/internal/config"
	"clubhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  10080,
			RefreshTokenDays: 30,
		},
		Owner: config.OwnerConfig{
			FullName: "Club Owner",
			Handle:   "root",
			Email:    "owner@clubhub.local",
		},
	}
}

func newTestAuthService(verifier HandleVerifier) (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	return NewAuthService(userRepo, tokenRepo, verifier, testConfig()), userRepo, tokenRepo
}

func registerInput(handle string) *RegisterInput {
	return &RegisterInput{
		FullName: "Test User",
		Handle:   handle,
		Email:    handle + "@example.com",
		Password: "password123",
	}
}

func TestRegisterDefaultsToMemberRole(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))

	user, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleMember), user.Role)
	require.NotNil(t, user.Rating)
	assert.Equal(t, 1500, *user.Rating)
}

func TestRegisterRolePinning(t *testing.T) {
	tests := []struct {
		name     string
		actor    *domain.Actor
		role     string
		wantRole string
		wantErr  error
	}{
		// Anonymous registrations keep the account but pin the role to member
		{"anonymous requesting manager", nil, "manager", "member", nil},
		{"anonymous requesting office", nil, "office", "member", nil},
		{"anonymous requesting owner", nil, "owner", "member", nil},
		{"anonymous requesting garbage role", nil, "superuser", "member", nil},
		// Authenticated non-owners asking for escalation are refused outright
		{"member requesting manager", &domain.Actor{ID: 5, Role: domain.RoleMember}, "manager", "", domain.ErrForbidden},
		{"office requesting manager", &domain.Actor{ID: 5, Role: domain.RoleOffice}, "manager", "", domain.ErrForbidden},
		// The owner assigns roles, but never a second owner
		{"owner requesting manager", &domain.Actor{ID: 1, Role: domain.RoleOwner}, "manager", "manager", nil},
		{"owner requesting office", &domain.Actor{ID: 1, Role: domain.RoleOwner}, "office", "office", nil},
		{"owner requesting second owner", &domain.Actor{ID: 1, Role: domain.RoleOwner}, "owner", "", domain.ErrOwnerExists},
		{"owner requesting unknown role", &domain.Actor{ID: 1, Role: domain.RoleOwner}, "superuser", "", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, userRepo, _ := newTestAuthService(newFakeVerifier("bob"))

			input := registerInput("bob")
			input.Role = tt.role

			user, err := svc.Register(context.Background(), tt.actor, input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)

			stored, err := userRepo.GetByHandle(context.Background(), "bob")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, stored.Role)
		})
	}
}

func TestRegisterDuplicateRejected(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice", "alice2"))

	_, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)

	// Same email
	dup := registerInput("alice2")
	dup.Email = "alice@example.com"
	_, err = svc.Register(context.Background(), nil, dup)
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	// Same handle
	_, err = svc.Register(context.Background(), nil, registerInput("alice"))
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestRegisterUnknownHandleRejected(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))

	_, err := svc.Register(context.Background(), nil, registerInput("stranger"))
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)
}

func TestRegisterReservedHandleSkipsVerification(t *testing.T) {
	// "root" is not known to the verifier but is the reserved bootstrap handle
	svc, _, _ := newTestAuthService(newFakeVerifier())

	user, err := svc.Register(context.Background(), nil, registerInput("root"))
	require.NoError(t, err)
	assert.Nil(t, user.Rating)
}

func TestRegisterWithoutVerifier(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	user, err := svc.Register(context.Background(), nil, registerInput("anyone"))
	require.NoError(t, err)
	assert.Equal(t, "anyone", user.Handle)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))
	_, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "alice", result.User.Handle)

	claims, err := svc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Handle)
	assert.Equal(t, string(domain.RoleMember), claims.Role)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))
	_, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))
	_, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The rotated-out token is dead
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.Error(t, err)

	// The new one still works
	_, err = svc.RefreshToken(context.Background(), refreshed.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestAuthService(newFakeVerifier("alice"))
	_, err := svc.Register(context.Background(), nil, registerInput("alice"))
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &LoginInput{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestRefreshTokenGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService(nil)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
