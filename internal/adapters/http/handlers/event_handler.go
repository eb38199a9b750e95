package handlers

import (
	"errors"

	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/pagination"
	"clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// MarkPaymentRequest represents payment marking request body
type MarkPaymentRequest struct {
	UserID uint `json:"user_id"`
}

// PinRequest represents discussion pin request body
type PinRequest struct {
	Pinned bool `json:"pinned"`
}

// CreateEvent handles event creation
// @Summary Create event
// @Description Create a new event (owner/office/manager)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateEventInput true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateEventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to create events")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid event data")
		default:
			return response.InternalServerError(c, "Failed to create event")
		}
	}

	return response.Created(c, "Event created successfully", fiber.Map{
		"event": event,
	})
}

// ListEvents handles event listing
// @Summary List events
// @Description List events with optional status filter and sorting
// @Tags Events
// @Accept json
// @Produce json
// @Param status query string false "Filter by status (upcoming/ongoing/completed)"
// @Param sort query string false "Sort by (start_date/created_at/name)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /events [get]
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	input := &services.ListEventsInput{
		Status: c.Query("status"),
		SortBy: c.Query("sort"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	result, err := h.eventService.ListEvents(c.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Invalid status filter")
		}
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", result)
}

// GetEvent handles fetching one event
// @Summary Get event
// @Description Get an event with registrants, payers and interest counts
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.GetEvent(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to get event")
	}

	return response.Success(c, "Event retrieved successfully", fiber.Map{
		"event": event,
	})
}

// UpdateEvent handles event updates
// @Summary Update event
// @Description Update event fields (creator or owner)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body services.UpdateEventInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var input services.UpdateEventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.UpdateEvent(c.Context(), actor, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to update this event")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid event data")
		default:
			return response.InternalServerError(c, "Failed to update event")
		}
	}

	return response.Success(c, "Event updated successfully", fiber.Map{
		"event": event,
	})
}

// DeleteEvent handles event deletion
// @Summary Delete event
// @Description Delete an event (owner only)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.eventService.DeleteEvent(c.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete events")
		default:
			return response.InternalServerError(c, "Failed to delete event")
		}
	}

	return response.Success(c, "Event deleted successfully", nil)
}

// Register handles event registration
// @Summary Register for event
// @Description Register the authenticated user for an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Register(c.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrEventFull):
			return response.Conflict(c, "Event is full")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			return response.Conflict(c, "Already registered for this event")
		default:
			return response.InternalServerError(c, "Failed to register for event")
		}
	}

	return response.Success(c, "Registered for event successfully", fiber.Map{
		"event": event,
	})
}

// Unregister handles event unregistration
// @Summary Unregister from event
// @Description Remove the authenticated user's registration and payment mark
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/register [delete]
func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.Unregister(c.Context(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrNotRegistered):
			return response.Conflict(c, "Not registered for this event")
		default:
			return response.InternalServerError(c, "Failed to unregister from event")
		}
	}

	return response.Success(c, "Unregistered from event successfully", fiber.Map{
		"event": event,
	})
}

// MarkPayment handles payment marking
// @Summary Mark event payment
// @Description Mark a registered user as having paid the event fee
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body MarkPaymentRequest false "Target user (defaults to self)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /events/{id}/payment [post]
func (h *EventHandler) MarkPayment(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req MarkPaymentRequest
	_ = c.BodyParser(&req)
	userID := req.UserID
	if userID == 0 {
		userID = actor.ID
	}

	event, err := h.eventService.MarkPayment(c.Context(), actor, id, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to mark this payment")
		case errors.Is(err, domain.ErrEventHasNoFees):
			return response.BadRequest(c, "Event has no fees")
		case errors.Is(err, domain.ErrNotRegistered):
			return response.Conflict(c, "User is not registered for this event")
		case errors.Is(err, domain.ErrAlreadyPaid):
			return response.Conflict(c, "Payment already marked")
		default:
			return response.InternalServerError(c, "Failed to mark payment")
		}
	}

	return response.Success(c, "Payment marked successfully", fiber.Map{
		"event": event,
	})
}

// SetInterest handles interest marking
// @Summary Set event interest
// @Description Set or clear the authenticated user's interest marker
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body services.InterestInput true "Interest status (empty clears)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/interest [post]
func (h *EventHandler) SetInterest(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var input services.InterestInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	counts, err := h.eventService.SetInterest(c.Context(), actor, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid interest status")
		default:
			return response.InternalServerError(c, "Failed to set interest")
		}
	}

	return response.Success(c, "Interest updated successfully", fiber.Map{
		"interest_counts": counts,
	})
}

// PostDiscussion handles discussion posting
// @Summary Post discussion
// @Description Add a discussion entry to an event's thread
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body services.DiscussionInput true "Discussion content"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions [post]
func (h *EventHandler) PostDiscussion(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	var input services.DiscussionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	discussion, err := h.eventService.PostDiscussion(c.Context(), actor, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Discussion content is required")
		default:
			return response.InternalServerError(c, "Failed to post discussion")
		}
	}

	return response.Created(c, "Discussion posted successfully", fiber.Map{
		"discussion": discussion,
	})
}

// ListDiscussions handles discussion listing
// @Summary List discussions
// @Description List an event's discussion thread, pinned entries first
// @Tags Discussions
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions [get]
func (h *EventHandler) ListDiscussions(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	discussions, err := h.eventService.ListDiscussions(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to list discussions")
	}

	return response.Success(c, "Discussions retrieved successfully", fiber.Map{
		"discussions": discussions,
	})
}

// EditDiscussion handles discussion edits
// @Summary Edit discussion
// @Description Edit a discussion entry's content (author or owner/office)
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param discussionId path int true "Discussion ID"
// @Param body body services.DiscussionInput true "New content"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions/{discussionId} [put]
func (h *EventHandler) EditDiscussion(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	eventID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}
	discussionID, err := paramUint(c, "discussionId")
	if err != nil {
		return response.BadRequest(c, "Invalid discussion ID")
	}

	var input services.DiscussionInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	discussion, err := h.eventService.EditDiscussion(c.Context(), actor, eventID, discussionID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDiscussionNotFound):
			return response.NotFound(c, "Discussion not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to edit this discussion")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Discussion content is required")
		default:
			return response.InternalServerError(c, "Failed to edit discussion")
		}
	}

	return response.Success(c, "Discussion updated successfully", fiber.Map{
		"discussion": discussion,
	})
}

// DeleteDiscussion handles discussion deletion
// @Summary Delete discussion
// @Description Delete a discussion entry (author or owner)
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param discussionId path int true "Discussion ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions/{discussionId} [delete]
func (h *EventHandler) DeleteDiscussion(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	eventID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}
	discussionID, err := paramUint(c, "discussionId")
	if err != nil {
		return response.BadRequest(c, "Invalid discussion ID")
	}

	if err := h.eventService.DeleteDiscussion(c.Context(), actor, eventID, discussionID); err != nil {
		switch {
		case errors.Is(err, domain.ErrDiscussionNotFound):
			return response.NotFound(c, "Discussion not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete this discussion")
		default:
			return response.InternalServerError(c, "Failed to delete discussion")
		}
	}

	return response.Success(c, "Discussion deleted successfully", nil)
}

// PinDiscussion handles discussion pinning
// @Summary Pin discussion
// @Description Pin or unpin a discussion entry (owner/office)
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param discussionId path int true "Discussion ID"
// @Param body body PinRequest true "Pin state"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions/{discussionId}/pin [put]
func (h *EventHandler) PinDiscussion(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	eventID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}
	discussionID, err := paramUint(c, "discussionId")
	if err != nil {
		return response.BadRequest(c, "Invalid discussion ID")
	}

	var req PinRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	discussion, err := h.eventService.PinDiscussion(c.Context(), actor, eventID, discussionID, req.Pinned)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDiscussionNotFound):
			return response.NotFound(c, "Discussion not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to pin discussions")
		default:
			return response.InternalServerError(c, "Failed to pin discussion")
		}
	}

	return response.Success(c, "Discussion pin updated successfully", fiber.Map{
		"discussion": discussion,
	})
}

// ToggleUpvote handles discussion upvote toggling
// @Summary Toggle discussion upvote
// @Description Add or remove the authenticated user's upvote
// @Tags Discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param discussionId path int true "Discussion ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id}/discussions/{discussionId}/upvote [post]
func (h *EventHandler) ToggleUpvote(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	eventID, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}
	discussionID, err := paramUint(c, "discussionId")
	if err != nil {
		return response.BadRequest(c, "Invalid discussion ID")
	}

	discussion, err := h.eventService.ToggleUpvote(c.Context(), actor, eventID, discussionID)
	if err != nil {
		if errors.Is(err, domain.ErrDiscussionNotFound) {
			return response.NotFound(c, "Discussion not found")
		}
		return response.InternalServerError(c, "Failed to toggle upvote")
	}

	return response.Success(c, "Upvote toggled successfully", fiber.Map{
		"discussion": discussion,
	})
}
