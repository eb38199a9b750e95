package handlers

import (
	"errors"

	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SessionHandler handles attendance session endpoints
type SessionHandler struct {
	sessionService *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// IssueCode opens a new attendance session
// @Summary Issue attendance code
// @Description Open a new attendance session gated by a fresh 6-digit code (owner/manager)
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /sessions/code [post]
func (h *SessionHandler) IssueCode(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	result, err := h.sessionService.IssueCode(c.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return response.Forbidden(c, "You don't have permission to issue attendance codes")
		}
		return response.InternalServerError(c, "Failed to issue attendance code")
	}

	return response.Created(c, "Attendance session opened", result)
}

// MarkPresence checks the authenticated user into a session
// @Summary Mark presence
// @Description Check into an attendance session with its 6-digit code
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.MarkPresenceInput true "Session ID and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /sessions/presence [post]
func (h *SessionHandler) MarkPresence(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.MarkPresenceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.SessionID == 0 || input.Code == "" {
		return response.BadRequest(c, "Session ID and code are required")
	}

	result, err := h.sessionService.MarkPresence(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			return response.NotFound(c, "Session not found")
		case errors.Is(err, domain.ErrWrongCode):
			return response.Unauthorized(c, "Incorrect session code")
		case errors.Is(err, domain.ErrAlreadyPresent):
			return response.Conflict(c, "Already marked present for this session")
		default:
			return response.InternalServerError(c, "Failed to mark presence")
		}
	}

	return response.Success(c, "Presence marked successfully", result)
}
