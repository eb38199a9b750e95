package config

import (
	"context"
	"errors"
	"log"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedOwner creates the bootstrap owner account if no owner exists.
// Idempotent: re-running does nothing once an owner is present. The unique
// owner_key index guards the invariant even if two processes race here.
func SeedOwner(db *gorm.DB, cfg *Config) error {
	exists, err := repositories.NewUserRepository(db).OwnerExists(context.Background())
	if err != nil {
		return err
	}
	if exists {
		log.Println("Owner account already exists, skipping seed")
		return nil
	}

	hashed, err := password.Hash(cfg.Owner.Password)
	if err != nil {
		return err
	}

	owner := &models.User{
		FullName: cfg.Owner.FullName,
		Handle:   cfg.Owner.Handle,
		Email:    cfg.Owner.Email,
		Password: hashed,
		Role:     string(domain.RoleOwner),
		OwnerKey: models.OwnerKeyFor(string(domain.RoleOwner)),
	}

	if err := db.Create(owner).Error; err != nil {
		// Lost the race to another process: an owner now exists, which is
		// the state we wanted.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Println("Owner account seeded concurrently, skipping")
			return nil
		}
		return err
	}

	log.Printf("Owner account created: %s", owner.Handle)
	return nil
}
