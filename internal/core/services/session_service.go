package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/policy"

	"gorm.io/gorm"
)

// SessionService handles attendance session business logic
type SessionService struct {
	sessionRepo repositories.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repositories.SessionRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo}
}

// IssueCodeOutput represents an opened attendance session
type IssueCodeOutput struct {
	SessionID uint   `json:"session_id"`
	Code      string `json:"code"`
}

// MarkPresenceInput represents check-in input
type MarkPresenceInput struct {
	SessionID uint   `json:"session_id"`
	Code      string `json:"code"`
}

// MarkPresenceOutput represents check-in output
type MarkPresenceOutput struct {
	SessionID     uint  `json:"session_id"`
	AttendeeCount int64 `json:"attendee_count"`
}

// IssueCode opens a new attendance session gated by a fresh 6-digit code
// (owner/manager). Each call creates a new session; codes are not unique
// across sessions and never expire.
func (s *SessionService) IssueCode(ctx context.Context, actor domain.Actor) (*IssueCodeOutput, error) {
	if !policy.CanIssueSessionCode(actor) {
		return nil, domain.ErrForbidden
	}

	code, err := generateSessionCode()
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Code:      code,
		CreatedBy: actor.ID,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("Attendance session opened: id=%d (by %s)", session.ID, actor.Handle)
	return &IssueCodeOutput{SessionID: session.ID, Code: code}, nil
}

// MarkPresence checks the actor into a session. The submitted code must
// match the session's code exactly; each user checks in at most once.
func (s *SessionService) MarkPresence(ctx context.Context, actor domain.Actor, input *MarkPresenceInput) (*MarkPresenceOutput, error) {
	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if input.Code != session.Code {
		return nil, domain.ErrWrongCode
	}

	if err := s.sessionRepo.AddCheckin(ctx, session.ID, actor.ID); err != nil {
		return nil, err
	}

	count, err := s.sessionRepo.CountCheckins(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &MarkPresenceOutput{SessionID: session.ID, AttendeeCount: count}, nil
}

// generateSessionCode returns a uniform random 6-digit code with leading
// zeros preserved
func generateSessionCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
