package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/policy"
	"clubhub/internal/pkg/password"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrOldPasswordWrong = errors.New("old password is incorrect")
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	verifier HandleVerifier
	cfg      userServiceConfig
}

type userServiceConfig struct {
	reservedHandle string
}

// NewUserService creates a new user service. verifier may be nil to skip
// handle verification on profile updates.
func NewUserService(userRepo repositories.UserRepository, verifier HandleVerifier, reservedHandle string) *UserService {
	return &UserService{
		userRepo: userRepo,
		verifier: verifier,
		cfg:      userServiceConfig{reservedHandle: reservedHandle},
	}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page  int
	Limit int
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users      []*models.UserResponse `json:"users"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}

// UpdateUserInput represents update profile input. Nil fields are left
// unchanged; at least one must be set.
type UpdateUserInput struct {
	FullName *string `json:"full_name"`
	Handle   *string `json:"handle"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Empty reports whether no field was supplied
func (in *UpdateUserInput) Empty() bool {
	return in.FullName == nil && in.Handle == nil && in.Email == nil && in.Password == nil
}

// ListUsers lists all users with pagination (owner/office only)
func (s *UserService) ListUsers(ctx context.Context, actor domain.Actor, input *ListUsersInput) (*ListUsersOutput, error) {
	if !policy.CanListUsers(actor) {
		return nil, domain.ErrForbidden
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit

	users, total, err := s.userRepo.List(ctx, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	userResponses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = user.ToResponse()
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListUsersOutput{
		Users:      userResponses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUserByID gets a user by ID (any authenticated actor)
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// UpdateUser updates a user's profile fields subject to the policy table.
// A handle change is re-verified against the external provider and
// re-checked for uniqueness.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, targetID uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if input.Empty() {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !policy.CanUpdateUser(actor, user.ID, domain.Role(user.Role)) {
		return nil, domain.ErrForbidden
	}

	if input.Handle != nil {
		newHandle := strings.TrimSpace(*input.Handle)
		if newHandle == "" {
			return nil, domain.ErrInvalidInput
		}
		if newHandle != user.Handle {
			exists, err := s.userRepo.ExistsByHandle(ctx, newHandle)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrUserAlreadyExists
			}
			if s.verifier != nil && newHandle != s.cfg.reservedHandle {
				info, err := s.verifier.Verify(ctx, newHandle)
				if err != nil || info == nil {
					return nil, domain.ErrInvalidHandle
				}
				user.Rating = info.Rating
			}
			user.Handle = newHandle
		}
	}

	if input.FullName != nil {
		if strings.TrimSpace(*input.FullName) == "" {
			return nil, domain.ErrInvalidInput
		}
		user.FullName = strings.TrimSpace(*input.FullName)
	}

	if input.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*input.Email))
		if newEmail == "" {
			return nil, domain.ErrInvalidInput
		}
		if newEmail != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, newEmail)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrUserAlreadyExists
			}
			user.Email = newEmail
		}
	}

	if input.Password != nil {
		if !password.Validate(*input.Password) {
			return nil, domain.ErrInvalidInput
		}
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	return user.ToResponse(), nil
}

// DeleteUser removes a user. Owner only; the owner record and the actor's
// own account are never deletable.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, targetID uint) error {
	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !policy.CanDeleteUser(actor, user.ID, domain.Role(user.Role)) {
		return domain.ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Printf("User deleted: %s (by %s)", user.Handle, actor.Handle)
	return nil
}

// ChangePassword changes the actor's own password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, actorID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if !password.Verify(oldPassword, user.Password) {
		return ErrOldPasswordWrong
	}
	if !password.Validate(newPassword) {
		return domain.ErrInvalidInput
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.Password = hashed

	return s.userRepo.Update(ctx, user)
}

// MembersWithAttendance lists member-role users with session check-in
// counts for the office dashboard
func (s *UserService) MembersWithAttendance(ctx context.Context, actor domain.Actor) ([]*domain.AttendanceEntry, error) {
	if !policy.CanListUsers(actor) {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.ListWithAttendance(ctx, domain.RoleMember)
}

// ManagersWithAttendance lists manager-role users with session check-in
// counts for the office dashboard
func (s *UserService) ManagersWithAttendance(ctx context.Context, actor domain.Actor) ([]*domain.AttendanceEntry, error) {
	if !policy.CanListUsers(actor) {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.ListWithAttendance(ctx, domain.RoleManager)
}
