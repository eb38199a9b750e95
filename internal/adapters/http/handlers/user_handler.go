package handlers

import (
	"errors"

	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/pagination"
	"clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ListUsers handles user listing
// @Summary List users
// @Description List all users with pagination (owner/office only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListUsersInput{
		Page:  params.Page,
		Limit: params.Limit,
	}

	result, err := h.userService.ListUsers(c.Context(), actor, input)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to list users")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser handles fetching one user
// @Summary Get user
// @Description Get a user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateUser handles profile updates
// @Summary Update user
// @Description Update a user's profile fields
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateUser(c.Context(), actor, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to update this user")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Handle or email already taken")
		case errors.Is(err, domain.ErrInvalidHandle):
			return response.BadRequest(c, "Handle could not be verified")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "No valid fields to update")
		default:
			return response.InternalServerError(c, "Failed to update user")
		}
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// DeleteUser handles user deletion
// @Summary Delete user
// @Description Delete a user (owner only; the owner account is protected)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.DeleteUser(c.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete this user")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}

// ChangePassword handles password changes for the current user
// @Summary Change password
// @Description Change the authenticated user's password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users/password [put]
func (h *UserHandler) ChangePassword(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old and new password are required")
	}

	if err := h.userService.ChangePassword(c.Context(), actor.ID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrOldPasswordWrong):
			return response.Unauthorized(c, "Old password is incorrect")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Password must be at least 8 characters")
		default:
			return response.InternalServerError(c, "Failed to change password")
		}
	}

	return response.Success(c, "Password changed successfully", nil)
}

// MembersAttendance lists member users with attendance counts
// @Summary Members attendance dashboard
// @Description List member-role users with session check-in counts (owner/office)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/members-attendance [get]
func (h *UserHandler) MembersAttendance(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	entries, err := h.userService.MembersWithAttendance(c.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to view attendance")
		}
		return response.InternalServerError(c, "Failed to load attendance")
	}

	return response.Success(c, "Members attendance retrieved successfully", fiber.Map{
		"members": entries,
	})
}

// ManagersAttendance lists manager users with attendance counts
// @Summary Managers attendance dashboard
// @Description List manager-role users with session check-in counts (owner/office)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users/managers-attendance [get]
func (h *UserHandler) ManagersAttendance(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	entries, err := h.userService.ManagersWithAttendance(c.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to view attendance")
		}
		return response.InternalServerError(c, "Failed to load attendance")
	}

	return response.Success(c, "Managers attendance retrieved successfully", fiber.Map{
		"managers": entries,
	})
}
