package repositories

import (
	"context"
	"errors"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new attendance session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create persists a new attendance session
func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetByID gets a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddCheckin appends a user to the session's checked-in set. The composite
// unique index makes a repeat check-in a conflict, not a lost update.
func (r *sessionRepository) AddCheckin(ctx context.Context, sessionID, userID uint) error {
	checkin := &models.SessionCheckin{SessionID: sessionID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(checkin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrAlreadyPresent
		}
		return err
	}
	return nil
}

// CountCheckins counts users checked into a session
func (r *sessionRepository) CountCheckins(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionCheckin{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
