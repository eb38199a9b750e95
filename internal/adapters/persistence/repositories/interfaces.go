package repositories

import (
	"context"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByHandle(ctx context.Context, handle string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByHandle(ctx context.Context, handle string) (bool, error)
	OwnerExists(ctx context.Context) (bool, error)
	// ListWithAttendance returns users of the given role with their session
	// check-in counts, highest first.
	ListWithAttendance(ctx context.Context, role domain.Role) ([]*domain.AttendanceEntry, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// EventRepository defines event repository interface.
//
// Register, MarkPaid, AddUpvote and the check-in path rely on composite
// unique indexes plus row-locked transactions so the capacity and
// no-duplicate invariants hold under concurrent requests.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, status string, sortBy string, offset, limit int) ([]*models.Event, int64, error)

	CountRegistrations(ctx context.Context, eventID uint) (int64, error)
	Register(ctx context.Context, eventID, userID uint, maxParticipants *int) error
	Unregister(ctx context.Context, eventID, userID uint) error
	IsRegistered(ctx context.Context, eventID, userID uint) (bool, error)
	MarkPaid(ctx context.Context, eventID, userID uint) error
	HasPaid(ctx context.Context, eventID, userID uint) (bool, error)

	UpsertInterest(ctx context.Context, eventID, userID uint, status domain.InterestStatus) error
	ClearInterest(ctx context.Context, eventID, userID uint) error
	InterestCounts(ctx context.Context, eventID uint) (*models.InterestCounts, error)

	CreateDiscussion(ctx context.Context, discussion *models.Discussion) error
	GetDiscussion(ctx context.Context, eventID, discussionID uint) (*models.Discussion, error)
	UpdateDiscussion(ctx context.Context, discussion *models.Discussion) error
	DeleteDiscussion(ctx context.Context, discussionID uint) error
	ListDiscussions(ctx context.Context, eventID uint) ([]*models.Discussion, error)
	HasUpvoted(ctx context.Context, discussionID, userID uint) (bool, error)
	AddUpvote(ctx context.Context, discussionID, userID uint) error
	RemoveUpvote(ctx context.Context, discussionID, userID uint) error
	CountUpvotes(ctx context.Context, discussionID uint) (int64, error)

	// Lifecycle transitions used by the status cron job.
	MarkOngoing(ctx context.Context) (int64, error)
	MarkCompleted(ctx context.Context) (int64, error)
}

// SessionRepository defines attendance session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id uint) (*models.Session, error)
	AddCheckin(ctx context.Context, sessionID, userID uint) error
	CountCheckins(ctx context.Context, sessionID uint) (int64, error)
}

// ArticleRepository defines blog article repository interface
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error)
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Tag       string
	EventID   *uint
	ProblemID *uint
}

// ProblemRepository defines practice problem repository interface
type ProblemRepository interface {
	Create(ctx context.Context, problem *models.Problem) error
	GetByID(ctx context.Context, id uint) (*models.Problem, error)
	List(ctx context.Context, tag string) ([]*models.Problem, error)
}
