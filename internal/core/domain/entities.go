package domain

import "time"

// Role represents a user role in the club
type Role string

const (
	RoleOwner   Role = "owner"
	RoleOffice  Role = "office"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleOffice, RoleManager, RoleMember:
		return true
	}
	return false
}

// Actor is the authenticated identity attached to a request
type Actor struct {
	ID     uint
	Handle string
	Role   Role
}

// EventType represents where/how an event is held
type EventType string

const (
	EventOnline  EventType = "online"
	EventInHouse EventType = "in-house"
	EventExtra   EventType = "extra"
)

// Valid reports whether the event type is known
func (t EventType) Valid() bool {
	switch t {
	case EventOnline, EventInHouse, EventExtra:
		return true
	}
	return false
}

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
)

// Valid reports whether the event status is known
func (s EventStatus) Valid() bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted:
		return true
	}
	return false
}

// InterestStatus is a per-user tri-state annotation on an event
type InterestStatus string

const (
	InterestInterested    InterestStatus = "interested"
	InterestNotInterested InterestStatus = "not_interested"
	InterestGoing         InterestStatus = "going"
)

// Valid reports whether the interest status is known
func (s InterestStatus) Valid() bool {
	switch s {
	case InterestInterested, InterestNotInterested, InterestGoing:
		return true
	}
	return false
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AttendanceEntry is a user paired with the number of sessions they checked into
type AttendanceEntry struct {
	UserID          uint
	FullName        string
	Handle          string
	Email           string
	Role            Role
	AttendanceCount int64
	CreatedAt       time.Time
}
