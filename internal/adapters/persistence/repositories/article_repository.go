package repositories

import (
	"context"

	"clubhub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// articleRepository implements ArticleRepository interface
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

// Create creates a new article
func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// GetByID gets an article with references preloaded
func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Problem").
		Preload("Event").
		Where("id = ?", id).
		First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Update updates an article
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

// Delete soft deletes an article
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Article{}, id).Error
}

// List lists articles newest first with optional filters
func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})

	if filter.Tag != "" {
		query = query.Where("FIND_IN_SET(?, tags) > 0", filter.Tag)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if filter.ProblemID != nil {
		query = query.Where("problem_id = ?", *filter.ProblemID)
	}

	var articles []*models.Article
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// problemRepository implements ProblemRepository interface
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository creates a new problem repository
func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db}
}

// Create creates a new problem
func (r *problemRepository) Create(ctx context.Context, problem *models.Problem) error {
	return r.db.WithContext(ctx).Create(problem).Error
}

// GetByID gets a problem by ID
func (r *problemRepository) GetByID(ctx context.Context, id uint) (*models.Problem, error) {
	var problem models.Problem
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&problem).Error
	if err != nil {
		return nil, err
	}
	return &problem, nil
}

// List lists problems newest first with optional tag filter
func (r *problemRepository) List(ctx context.Context, tag string) ([]*models.Problem, error) {
	query := r.db.WithContext(ctx).Model(&models.Problem{})
	if tag != "" {
		query = query.Where("FIND_IN_SET(?, tags) > 0", tag)
	}

	var problems []*models.Problem
	err := query.
		Preload("Author").
		Order("created_at DESC").
		Find(&problems).Error
	if err != nil {
		return nil, err
	}
	return problems, nil
}
