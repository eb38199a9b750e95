package models

import (
	"time"

	"gorm.io/gorm"

	"clubhub/internal/core/domain"
)

// ============================================================
// Users & Auth
// ============================================================

// User represents users table
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Handle   string `gorm:"uniqueIndex;size:50;not null" json:"handle"`
	Email    string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;default:'member'" json:"role"`
	Rating   *int   `json:"rating"`
	// OwnerKey is "owner" on the owner row and NULL everywhere else.
	// The unique index makes the single-owner invariant a DB constraint
	// instead of a query-then-insert race.
	OwnerKey  *string        `gorm:"uniqueIndex;size:10" json:"-"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO (credential field stripped)
type UserResponse struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"full_name"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Handle:    u.Handle,
		Email:     u.Email,
		Role:      u.Role,
		Rating:    u.Rating,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserRef is the short projection embedded in event/discussion responses
type UserRef struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Handle   string `json:"handle"`
}

func (u *User) ToRef() *UserRef {
	return &UserRef{ID: u.ID, FullName: u.FullName, Handle: u.Handle}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Events
// ============================================================

// Event represents events table
type Event struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"size:200;not null" json:"name"`
	Description     string         `gorm:"type:text" json:"description"`
	StartDate       time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate         *time.Time     `json:"end_date"`
	Location        string         `gorm:"size:200" json:"location"`
	Type            string         `gorm:"size:20;default:'in-house'" json:"type"`
	MaxParticipants *int           `json:"max_participants"`
	Fees            float64        `gorm:"type:decimal(10,2);default:0" json:"fees"`
	Status          string         `gorm:"size:20;default:'upcoming';index" json:"status"`
	CreatedBy       uint           `gorm:"not null;index" json:"created_by"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator       *User               `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Registrations []EventRegistration `gorm:"foreignKey:EventID" json:"-"`
	Payments      []EventPayment      `gorm:"foreignKey:EventID" json:"-"`
	Interests     []EventInterest     `gorm:"foreignKey:EventID" json:"-"`
	Discussions   []Discussion        `gorm:"foreignKey:EventID" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// IsFull reports whether the registered count has reached capacity
func (e *Event) IsFull(registered int64) bool {
	if e.MaxParticipants == nil {
		return false
	}
	return registered >= int64(*e.MaxParticipants)
}

// EventRegistration links a user to an event they registered for
type EventRegistration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_user_reg" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_user_reg" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

// EventPayment marks a registered user as having paid the event fee
type EventPayment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_user_pay" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_user_pay" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventPayment) TableName() string {
	return "event_payments"
}

// EventInterest is a per-user tri-state marker on an event
type EventInterest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_event_user_int" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_event_user_int" json:"user_id"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (EventInterest) TableName() string {
	return "event_interests"
}

// InterestCounts aggregates interest markers for an event
type InterestCounts struct {
	Interested    int64 `json:"interested"`
	NotInterested int64 `json:"not_interested"`
	Going         int64 `json:"going"`
}

// Discussion is one entry in an event's discussion thread.
// AuthorID is immutable once created.
type Discussion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index" json:"event_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPinned  bool      `gorm:"default:false" json:"is_pinned"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Author  *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Upvotes []DiscussionUpvote `gorm:"foreignKey:DiscussionID" json:"-"`
}

func (Discussion) TableName() string {
	return "discussions"
}

// DiscussionResponse DTO with author projection and upvote count
type DiscussionResponse struct {
	ID          uint      `json:"id"`
	EventID     uint      `json:"event_id"`
	Author      *UserRef  `json:"author"`
	Content     string    `json:"content"`
	IsPinned    bool      `json:"is_pinned"`
	UpvoteCount int64     `json:"upvote_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *Discussion) ToResponse(upvotes int64) *DiscussionResponse {
	resp := &DiscussionResponse{
		ID:          d.ID,
		EventID:     d.EventID,
		Content:     d.Content,
		IsPinned:    d.IsPinned,
		UpvoteCount: upvotes,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Author != nil {
		resp.Author = d.Author.ToRef()
	} else {
		resp.Author = &UserRef{ID: d.AuthorID}
	}
	return resp
}

// DiscussionUpvote records one user's upvote on a discussion entry
type DiscussionUpvote struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	DiscussionID uint      `gorm:"not null;uniqueIndex:idx_discussion_user" json:"discussion_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_discussion_user" json:"user_id"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DiscussionUpvote) TableName() string {
	return "discussion_upvotes"
}

// EventResponse DTO
type EventResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	Location        string          `json:"location"`
	Type            string          `json:"type"`
	MaxParticipants *int            `json:"max_participants"`
	AvailableSpots  *int64          `json:"available_spots"`
	Fees            float64         `json:"fees"`
	Status          string          `json:"status"`
	Creator         *UserRef        `json:"creator"`
	RegisteredUsers []*UserRef      `json:"registered_users"`
	PaidUsers       []*UserRef      `json:"paid_users"`
	InterestCounts  *InterestCounts `json:"interest_counts"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ============================================================
// Attendance sessions
// ============================================================

// Session is a code-gated attendance window. It has no expiry and is only
// ever mutated by appending check-ins.
type Session struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Issuer   *User            `gorm:"foreignKey:CreatedBy" json:"issuer,omitempty"`
	Checkins []SessionCheckin `gorm:"foreignKey:SessionID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// SessionCheckin records one user's presence in a session
type SessionCheckin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_session_user" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_session_user" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SessionCheckin) TableName() string {
	return "session_checkins"
}

// ============================================================
// Blog
// ============================================================

// Article represents blog articles, optionally linked to a problem or event
type Article struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uint           `gorm:"not null;index" json:"author_id"`
	Tags      string         `gorm:"size:500" json:"-"`
	ProblemID *uint          `gorm:"index" json:"problem_id"`
	EventID   *uint          `gorm:"index" json:"event_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Author  *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Problem *Problem `gorm:"foreignKey:ProblemID" json:"problem,omitempty"`
	Event   *Event   `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (Article) TableName() string {
	return "articles"
}

// ArticleResponse DTO
type ArticleResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    *UserRef  `json:"author"`
	Tags      []string  `json:"tags"`
	ProblemID *uint     `json:"problem_id"`
	EventID   *uint     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Article) ToResponse() *ArticleResponse {
	resp := &ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Tags:      SplitTags(a.Tags),
		ProblemID: a.ProblemID,
		EventID:   a.EventID,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Author != nil {
		resp.Author = a.Author.ToRef()
	}
	return resp
}

// Problem represents practice problems referenced by articles
type Problem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Statement   string         `gorm:"type:text;not null" json:"statement"`
	TimeLimitMs int            `gorm:"not null" json:"time_limit_ms"`
	MemoryLimit int            `gorm:"not null" json:"memory_limit_mb"`
	AuthorID    uint           `gorm:"not null;index" json:"author_id"`
	Examples    string         `gorm:"type:text" json:"-"`
	Tags        string         `gorm:"size:500" json:"-"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Event{},
		&EventRegistration{},
		&EventPayment{},
		&EventInterest{},
		&Discussion{},
		&DiscussionUpvote{},
		&Session{},
		&SessionCheckin{},
		&Article{},
		&Problem{},
	)
}

// OwnerKeyFor returns the owner_key value for a role: "owner" for the owner
// row, nil otherwise.
func OwnerKeyFor(role string) *string {
	if role == string(domain.RoleOwner) {
		k := "owner"
		return &k
	}
	return nil
}
