package repositories

import (
	"context"
	"errors"
	"time"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// eventRepository implements EventRepository interface
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID gets an event with its creator, registrants and payers preloaded
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Registrations.User").
		Preload("Payments.User").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Update updates an event
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete soft deletes an event
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, id).Error
}

// List lists events with optional status filter and sorting
func (r *eventRepository) List(ctx context.Context, status string, sortBy string, offset, limit int) ([]*models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case "", "start_date":
		query = query.Order("start_date ASC")
	case "created_at":
		query = query.Order("created_at DESC")
	case "name":
		query = query.Order("name ASC")
	default:
		query = query.Order("start_date ASC")
	}

	var events []*models.Event
	err := query.
		Preload("Creator").
		Preload("Registrations.User").
		Preload("Payments.User").
		Offset(offset).Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// CountRegistrations counts registered users for an event
func (r *eventRepository) CountRegistrations(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// Register adds a user to an event's registered set. The event row is
// locked for the duration of the transaction so the capacity check and the
// insert are atomic; the composite unique index rejects duplicates.
func (r *eventRepository) Register(ctx context.Context, eventID, userID uint, maxParticipants *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if maxParticipants != nil {
			var event models.Event
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id = ?", eventID).
				First(&event).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrEventNotFound
				}
				return err
			}

			var count int64
			if err := tx.Model(&models.EventRegistration{}).
				Where("event_id = ?", eventID).
				Count(&count).Error; err != nil {
				return err
			}
			// Capacity comes from the locked row, not the caller's copy
			if event.IsFull(count) {
				return domain.ErrEventFull
			}
		}

		reg := &models.EventRegistration{EventID: eventID, UserID: userID}
		if err := tx.Create(reg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
}

// Unregister removes a user's registration and payment mark
func (r *eventRepository) Unregister(ctx context.Context, eventID, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.EventRegistration{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotRegistered
		}
		return tx.Where("event_id = ? AND user_id = ?", eventID, userID).
			Delete(&models.EventPayment{}).Error
	})
}

// IsRegistered checks if a user is registered for an event
func (r *eventRepository) IsRegistered(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// MarkPaid adds a user to an event's paid set
func (r *eventRepository) MarkPaid(ctx context.Context, eventID, userID uint) error {
	payment := &models.EventPayment{EventID: eventID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyPaid
		}
		return err
	}
	return nil
}

// HasPaid checks if a user has marked payment for an event
func (r *eventRepository) HasPaid(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventPayment{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// UpsertInterest sets or replaces a user's interest marker on an event
func (r *eventRepository) UpsertInterest(ctx context.Context, eventID, userID uint, status domain.InterestStatus) error {
	interest := &models.EventInterest{
		EventID: eventID,
		UserID:  userID,
		Status:  string(status),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": string(status), "updated_at": time.Now()}),
		}).
		Create(interest).Error
}

// ClearInterest removes a user's interest marker from an event
func (r *eventRepository) ClearInterest(ctx context.Context, eventID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.EventInterest{}).Error
}

// InterestCounts aggregates interest markers for an event
func (r *eventRepository) InterestCounts(ctx context.Context, eventID uint) (*models.InterestCounts, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.EventInterest{}).
		Select("status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &models.InterestCounts{}
	for _, r := range rows {
		switch domain.InterestStatus(r.Status) {
		case domain.InterestInterested:
			counts.Interested = r.Count
		case domain.InterestNotInterested:
			counts.NotInterested = r.Count
		case domain.InterestGoing:
			counts.Going = r.Count
		}
	}
	return counts, nil
}

// CreateDiscussion appends a discussion entry to an event's thread
func (r *eventRepository) CreateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Create(discussion).Error
}

// GetDiscussion gets a discussion entry scoped to its event
func (r *eventRepository) GetDiscussion(ctx context.Context, eventID, discussionID uint) (*models.Discussion, error) {
	var discussion models.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ? AND event_id = ?", discussionID, eventID).
		First(&discussion).Error
	if err != nil {
		return nil, err
	}
	return &discussion, nil
}

// UpdateDiscussion updates a discussion entry's content/pin state
func (r *eventRepository) UpdateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	return r.db.WithContext(ctx).Save(discussion).Error
}

// DeleteDiscussion removes a discussion entry and its upvotes
func (r *eventRepository) DeleteDiscussion(ctx context.Context, discussionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("discussion_id = ?", discussionID).
			Delete(&models.DiscussionUpvote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Discussion{}, discussionID).Error
	})
}

// ListDiscussions lists an event's thread, pinned entries first
func (r *eventRepository) ListDiscussions(ctx context.Context, eventID uint) ([]*models.Discussion, error) {
	var discussions []*models.Discussion
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("event_id = ?", eventID).
		Order("is_pinned DESC, created_at ASC").
		Find(&discussions).Error
	if err != nil {
		return nil, err
	}
	return discussions, nil
}

// HasUpvoted checks if a user has upvoted a discussion entry
func (r *eventRepository) HasUpvoted(ctx context.Context, discussionID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscussionUpvote{}).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddUpvote records a user's upvote on a discussion entry
func (r *eventRepository) AddUpvote(ctx context.Context, discussionID, userID uint) error {
	upvote := &models.DiscussionUpvote{DiscussionID: discussionID, UserID: userID}
	err := r.db.WithContext(ctx).Create(upvote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// RemoveUpvote removes a user's upvote from a discussion entry
func (r *eventRepository) RemoveUpvote(ctx context.Context, discussionID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Delete(&models.DiscussionUpvote{}).Error
}

// CountUpvotes counts upvotes on a discussion entry
func (r *eventRepository) CountUpvotes(ctx context.Context, discussionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscussionUpvote{}).
		Where("discussion_id = ?", discussionID).
		Count(&count).Error
	return count, err
}

// MarkOngoing flips upcoming events whose start date has passed
func (r *eventRepository) MarkOngoing(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status = ?", string(domain.EventUpcoming)).
		Where("start_date <= ?", time.Now()).
		Update("status", string(domain.EventOngoing))
	return result.RowsAffected, result.Error
}

// MarkCompleted flips ongoing events whose end date has passed
func (r *eventRepository) MarkCompleted(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status = ?", string(domain.EventOngoing)).
		Where("end_date IS NOT NULL AND end_date <= ?", time.Now()).
		Update("status", string(domain.EventCompleted))
	return result.RowsAffected, result.Error
}
