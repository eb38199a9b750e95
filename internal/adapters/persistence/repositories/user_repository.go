package repositories

import (
	"context"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByHandle gets a user by handle
func (r *userRepository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByHandle checks if handle exists
func (r *userRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

// OwnerExists checks if an owner user exists
func (r *userRepository) OwnerExists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", string(domain.RoleOwner)).Count(&count).Error
	return count > 0, err
}

// ListWithAttendance lists users of a role with their session check-in counts
func (r *userRepository) ListWithAttendance(ctx context.Context, role domain.Role) ([]*domain.AttendanceEntry, error) {
	var entries []*domain.AttendanceEntry
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id AS user_id,
			users.full_name,
			users.handle,
			users.email,
			users.role,
			users.created_at,
			COUNT(session_checkins.id) AS attendance_count`).
		Joins("LEFT JOIN session_checkins ON session_checkins.user_id = users.id").
		Where("users.role = ?", string(role)).
		Where("users.deleted_at IS NULL").
		Group("users.id").
		Order("attendance_count DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
