package services

import (
	"context"
	"log"
	"time"

	"clubhub/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// StatusService runs the scheduled event lifecycle transitions:
// upcoming events whose start date has passed become ongoing, and ongoing
// events past their end date become completed.
type StatusService struct {
	eventRepo        repositories.EventRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewStatusService creates a new status service
func NewStatusService(eventRepo repositories.EventRepository, refreshTokenRepo repositories.RefreshTokenRepository) *StatusService {
	return &StatusService{
		eventRepo:        eventRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start registers the jobs and starts the scheduler. Lifecycle runs every
// minute; expired refresh tokens are purged nightly.
func (s *StatusService) Start() error {
	if _, err := s.cron.AddFunc("* * * * *", s.runLifecycle); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredTokens); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("Event status scheduler started")

	// Catch up on transitions missed while the process was down.
	go s.runLifecycle()
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *StatusService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Event status scheduler stopped")
}

func (s *StatusService) runLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	started, err := s.eventRepo.MarkOngoing(ctx)
	if err != nil {
		log.Printf("Event lifecycle: failed to mark ongoing: %v", err)
	} else if started > 0 {
		log.Printf("Event lifecycle: %d event(s) now ongoing", started)
	}

	completed, err := s.eventRepo.MarkCompleted(ctx)
	if err != nil {
		log.Printf("Event lifecycle: failed to mark completed: %v", err)
	} else if completed > 0 {
		log.Printf("Event lifecycle: %d event(s) completed", completed)
	}
}

func (s *StatusService) purgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.refreshTokenRepo.DeleteExpired(ctx); err != nil {
		log.Printf("Token cleanup failed: %v", err)
	}
}
