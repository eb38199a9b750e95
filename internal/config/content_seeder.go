package config

import (
	"context"
	"log"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"

	"gorm.io/gorm"
)

// SeedProblems loads the starter practice problems if the table is empty.
// Problems have no write endpoint, so this is the only way rows get in.
// Idempotent: keyed on title, existing rows are never touched.
func SeedProblems(db *gorm.DB) error {
	var owner models.User
	if err := db.Where("role = ?", string(domain.RoleOwner)).First(&owner).Error; err != nil {
		return err
	}

	problemRepo := repositories.NewProblemRepository(db)

	for _, seed := range starterProblems(owner.ID) {
		var existing models.Problem
		err := db.Where("title = ?", seed.Title).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		if err := problemRepo.Create(context.Background(), seed); err != nil {
			return err
		}
		log.Printf("Problem seeded: %s", seed.Title)
	}
	return nil
}

func starterProblems(authorID uint) []*models.Problem {
	twoSumExamples, _ := models.EncodeExamples([]models.ProblemExample{
		{Input: "nums = [2,7,11,15], target = 9", Output: "[0,1]"},
		{Input: "nums = [3,2,4], target = 6", Output: "[1,2]"},
	})
	aPlusBExamples, _ := models.EncodeExamples([]models.ProblemExample{
		{Input: "1 2", Output: "3"},
	})

	return []*models.Problem{
		{
			Title: "Two Sum",
			Statement: "Given an array of integers nums and an integer target, " +
				"return the indices of the two numbers that add up to target.\n\n" +
				"You may assume that each input would have exactly one solution, " +
				"and you may not use the same element twice.\n\n" +
				"You can return the answer in any order.",
			TimeLimitMs: 1000,
			MemoryLimit: 256,
			AuthorID:    authorID,
			Examples:    twoSumExamples,
			Tags:        models.JoinTags([]string{"two-pointers", "hash-map", "array", "easy"}),
		},
		{
			Title: "A Plus B",
			Statement: "Read two integers a and b from a single line of input " +
				"and print their sum.",
			TimeLimitMs: 1000,
			MemoryLimit: 256,
			AuthorID:    authorID,
			Examples:    aPlusBExamples,
			Tags:        models.JoinTags([]string{"math", "implementation", "easy"}),
		},
	}
}
