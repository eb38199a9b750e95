package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/policy"

	"gorm.io/gorm"
)

// EventService handles event business logic
type EventService struct {
	eventRepo repositories.EventRepository
}

// NewEventService creates a new event service
func NewEventService(eventRepo repositories.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// CreateEventInput represents create event input
type CreateEventInput struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Location        string     `json:"location"`
	Type            string     `json:"type"`
	MaxParticipants *int       `json:"max_participants"`
	Fees            float64    `json:"fees"`
}

// UpdateEventInput represents update event input. Nil fields are left unchanged.
type UpdateEventInput struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Location        *string    `json:"location"`
	Type            *string    `json:"type"`
	MaxParticipants *int       `json:"max_participants"`
	Fees            *float64   `json:"fees"`
	Status          *string    `json:"status"`
}

// ListEventsInput represents event listing input
type ListEventsInput struct {
	Status string
	SortBy string
	Page   int
	Limit  int
}

// ListEventsOutput represents event listing output
type ListEventsOutput struct {
	Events     []*models.EventResponse `json:"events"`
	Total      int64                   `json:"total"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
	TotalPages int                     `json:"total_pages"`
}

// DiscussionInput carries the body of a discussion post or edit
type DiscussionInput struct {
	Content string `json:"content"`
}

// InterestInput carries a tri-state interest marker; empty clears it
type InterestInput struct {
	Status string `json:"status"`
}

// CreateEvent creates a new event (owner/office/manager)
func (s *EventService) CreateEvent(ctx context.Context, actor domain.Actor, input *CreateEventInput) (*models.EventResponse, error) {
	if !policy.CanCreateEvent(actor) {
		return nil, domain.ErrForbidden
	}

	if strings.TrimSpace(input.Name) == "" || input.StartDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if input.MaxParticipants != nil && *input.MaxParticipants < 1 {
		return nil, domain.ErrInvalidInput
	}
	if input.Fees < 0 {
		return nil, domain.ErrInvalidInput
	}

	eventType := domain.EventInHouse
	if input.Type != "" {
		eventType = domain.EventType(input.Type)
		if !eventType.Valid() {
			return nil, domain.ErrInvalidInput
		}
	}

	event := &models.Event{
		Name:            strings.TrimSpace(input.Name),
		Description:     input.Description,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		Location:        input.Location,
		Type:            string(eventType),
		MaxParticipants: input.MaxParticipants,
		Fees:            input.Fees,
		Status:          string(domain.EventUpcoming),
		CreatedBy:       actor.ID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	log.Printf("Event created: %s (id=%d, by %s)", event.Name, event.ID, actor.Handle)
	return s.buildResponse(ctx, event)
}

// GetEvent returns one event with registrants, payers and interest counts
func (s *EventService) GetEvent(ctx context.Context, id uint) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, event)
}

// ListEvents lists events with optional status filter and sorting
func (s *EventService) ListEvents(ctx context.Context, input *ListEventsInput) (*ListEventsOutput, error) {
	if input.Status != "" && !domain.EventStatus(input.Status).Valid() {
		return nil, domain.ErrInvalidInput
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

	events, total, err := s.eventRepo.List(ctx, input.Status, input.SortBy, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.EventResponse, 0, len(events))
	for _, event := range events {
		resp, err := s.buildResponse(ctx, event)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListEventsOutput{
		Events:     responses,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateEvent edits event fields (creator within the creating roles, or owner)
func (s *EventService) UpdateEvent(ctx context.Context, actor domain.Actor, id uint, input *UpdateEventInput) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanUpdateEvent(actor, event.CreatedBy) {
		return nil, domain.ErrForbidden
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		event.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.StartDate != nil {
		event.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		event.EndDate = input.EndDate
	}
	if event.EndDate != nil && !event.EndDate.After(event.StartDate) {
		return nil, domain.ErrInvalidInput
	}
	if input.Location != nil {
		event.Location = *input.Location
	}
	if input.Type != nil {
		if !domain.EventType(*input.Type).Valid() {
			return nil, domain.ErrInvalidInput
		}
		event.Type = *input.Type
	}
	if input.MaxParticipants != nil {
		if *input.MaxParticipants < 1 {
			return nil, domain.ErrInvalidInput
		}
		event.MaxParticipants = input.MaxParticipants
	}
	if input.Fees != nil {
		if *input.Fees < 0 {
			return nil, domain.ErrInvalidInput
		}
		event.Fees = *input.Fees
	}
	if input.Status != nil {
		if !domain.EventStatus(*input.Status).Valid() {
			return nil, domain.ErrInvalidInput
		}
		event.Status = *input.Status
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	return s.buildResponse(ctx, event)
}

// DeleteEvent removes an event (owner only)
func (s *EventService) DeleteEvent(ctx context.Context, actor domain.Actor, id uint) error {
	if !policy.CanDeleteEvent(actor) {
		return domain.ErrForbidden
	}

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, event.ID); err != nil {
		return err
	}

	log.Printf("Event deleted: %s (id=%d, by %s)", event.Name, event.ID, actor.Handle)
	return nil
}

// Register registers the actor for an event. The insert runs under a
// row-locked transaction so capacity is never exceeded.
func (s *EventService) Register(ctx context.Context, actor domain.Actor, eventID uint) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Register(ctx, event.ID, actor.ID, event.MaxParticipants); err != nil {
		return nil, err
	}

	return s.GetEvent(ctx, event.ID)
}

// Unregister removes the actor's registration and any payment mark
func (s *EventService) Unregister(ctx context.Context, actor domain.Actor, eventID uint) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Unregister(ctx, event.ID, actor.ID); err != nil {
		return nil, err
	}

	return s.GetEvent(ctx, event.ID)
}

// MarkPayment records that a registered user paid the event fee.
// Actors mark their own payment; event managers may mark any registrant's.
func (s *EventService) MarkPayment(ctx context.Context, actor domain.Actor, eventID, userID uint) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if userID != actor.ID && !policy.CanUpdateEvent(actor, event.CreatedBy) {
		return nil, domain.ErrForbidden
	}
	if event.Fees <= 0 {
		return nil, domain.ErrEventHasNoFees
	}

	registered, err := s.eventRepo.IsRegistered(ctx, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, domain.ErrNotRegistered
	}

	paid, err := s.eventRepo.HasPaid(ctx, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, domain.ErrAlreadyPaid
	}

	if err := s.eventRepo.MarkPaid(ctx, event.ID, userID); err != nil {
		return nil, err
	}

	return s.GetEvent(ctx, event.ID)
}

// SetInterest upserts the actor's interest marker; an empty status clears it
func (s *EventService) SetInterest(ctx context.Context, actor domain.Actor, eventID uint, input *InterestInput) (*models.InterestCounts, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		if err := s.eventRepo.ClearInterest(ctx, event.ID, actor.ID); err != nil {
			return nil, err
		}
		return s.eventRepo.InterestCounts(ctx, event.ID)
	}

	status := domain.InterestStatus(input.Status)
	if !status.Valid() {
		return nil, domain.ErrInvalidInput
	}

	if err := s.eventRepo.UpsertInterest(ctx, event.ID, actor.ID, status); err != nil {
		return nil, err
	}

	return s.eventRepo.InterestCounts(ctx, event.ID)
}

// ============================================================
// Discussions
// ============================================================

// PostDiscussion adds a discussion entry to an event (any authenticated user)
func (s *EventService) PostDiscussion(ctx context.Context, actor domain.Actor, eventID uint, input *DiscussionInput) (*models.DiscussionResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrInvalidInput
	}

	discussion := &models.Discussion{
		EventID:  event.ID,
		AuthorID: actor.ID,
		Content:  input.Content,
	}

	if err := s.eventRepo.CreateDiscussion(ctx, discussion); err != nil {
		return nil, err
	}

	return s.discussionResponse(ctx, discussion)
}

// ListDiscussions returns an event's discussion thread, pinned entries first
func (s *EventService) ListDiscussions(ctx context.Context, eventID uint) ([]*models.DiscussionResponse, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}

	discussions, err := s.eventRepo.ListDiscussions(ctx, eventID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DiscussionResponse, 0, len(discussions))
	for _, d := range discussions {
		resp, err := s.discussionResponse(ctx, d)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// EditDiscussion updates the content of a discussion entry. The author
// never changes, whoever edits.
func (s *EventService) EditDiscussion(ctx context.Context, actor domain.Actor, eventID, discussionID uint, input *DiscussionInput) (*models.DiscussionResponse, error) {
	discussion, err := s.getDiscussion(ctx, eventID, discussionID)
	if err != nil {
		return nil, err
	}

	if !policy.CanEditDiscussion(actor, discussion.AuthorID) {
		return nil, domain.ErrForbidden
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrInvalidInput
	}

	discussion.Content = input.Content
	if err := s.eventRepo.UpdateDiscussion(ctx, discussion); err != nil {
		return nil, err
	}

	return s.discussionResponse(ctx, discussion)
}

// DeleteDiscussion removes a discussion entry (author or owner)
func (s *EventService) DeleteDiscussion(ctx context.Context, actor domain.Actor, eventID, discussionID uint) error {
	discussion, err := s.getDiscussion(ctx, eventID, discussionID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteDiscussion(actor, discussion.AuthorID) {
		return domain.ErrForbidden
	}

	return s.eventRepo.DeleteDiscussion(ctx, discussion.ID)
}

// PinDiscussion sets the pinned flag on a discussion entry (owner/office)
func (s *EventService) PinDiscussion(ctx context.Context, actor domain.Actor, eventID, discussionID uint, pinned bool) (*models.DiscussionResponse, error) {
	discussion, err := s.getDiscussion(ctx, eventID, discussionID)
	if err != nil {
		return nil, err
	}

	if !policy.CanPinDiscussion(actor) {
		return nil, domain.ErrForbidden
	}

	discussion.IsPinned = pinned
	if err := s.eventRepo.UpdateDiscussion(ctx, discussion); err != nil {
		return nil, err
	}

	return s.discussionResponse(ctx, discussion)
}

// ToggleUpvote adds or removes the actor's upvote on a discussion entry
// and returns the updated entry
func (s *EventService) ToggleUpvote(ctx context.Context, actor domain.Actor, eventID, discussionID uint) (*models.DiscussionResponse, error) {
	discussion, err := s.getDiscussion(ctx, eventID, discussionID)
	if err != nil {
		return nil, err
	}

	voted, err := s.eventRepo.HasUpvoted(ctx, discussion.ID, actor.ID)
	if err != nil {
		return nil, err
	}

	if voted {
		err = s.eventRepo.RemoveUpvote(ctx, discussion.ID, actor.ID)
	} else {
		err = s.eventRepo.AddUpvote(ctx, discussion.ID, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	return s.discussionResponse(ctx, discussion)
}

// ============================================================
// Internal helpers
// ============================================================

func (s *EventService) getEvent(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *EventService) getDiscussion(ctx context.Context, eventID, discussionID uint) (*models.Discussion, error) {
	discussion, err := s.eventRepo.GetDiscussion(ctx, eventID, discussionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiscussionNotFound
		}
		return nil, err
	}
	return discussion, nil
}

func (s *EventService) discussionResponse(ctx context.Context, d *models.Discussion) (*models.DiscussionResponse, error) {
	upvotes, err := s.eventRepo.CountUpvotes(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return d.ToResponse(upvotes), nil
}

// buildResponse assembles the full event projection: creator ref,
// registrant and payer refs, interest counts and remaining spots.
func (s *EventService) buildResponse(ctx context.Context, event *models.Event) (*models.EventResponse, error) {
	registered, err := s.eventRepo.CountRegistrations(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	counts, err := s.eventRepo.InterestCounts(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.EventResponse{
		ID:              event.ID,
		Name:            event.Name,
		Description:     event.Description,
		StartDate:       event.StartDate,
		EndDate:         event.EndDate,
		Location:        event.Location,
		Type:            event.Type,
		MaxParticipants: event.MaxParticipants,
		Fees:            event.Fees,
		Status:          event.Status,
		InterestCounts:  counts,
		RegisteredUsers: make([]*models.UserRef, 0, len(event.Registrations)),
		PaidUsers:       make([]*models.UserRef, 0, len(event.Payments)),
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}

	if event.MaxParticipants != nil {
		spots := int64(*event.MaxParticipants) - registered
		if spots < 0 {
			spots = 0
		}
		resp.AvailableSpots = &spots
	}

	if event.Creator != nil {
		resp.Creator = event.Creator.ToRef()
	} else {
		resp.Creator = &models.UserRef{ID: event.CreatedBy}
	}

	for i := range event.Registrations {
		if u := event.Registrations[i].User; u != nil {
			resp.RegisteredUsers = append(resp.RegisteredUsers, u.ToRef())
		}
	}
	for i := range event.Payments {
		if u := event.Payments[i].User; u != nil {
			resp.PaidUsers = append(resp.PaidUsers, u.ToRef())
		}
	}

	return resp, nil
}
