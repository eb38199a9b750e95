package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/policy"

	"gorm.io/gorm"
)

// ArticleService handles blog article and problem business logic
type ArticleService struct {
	articleRepo repositories.ArticleRepository
	problemRepo repositories.ProblemRepository
}

// NewArticleService creates a new article service
func NewArticleService(articleRepo repositories.ArticleRepository, problemRepo repositories.ProblemRepository) *ArticleService {
	return &ArticleService{
		articleRepo: articleRepo,
		problemRepo: problemRepo,
	}
}

// CreateArticleInput represents create article input
type CreateArticleInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	ProblemID *uint    `json:"problem_id"`
	EventID   *uint    `json:"event_id"`
}

// UpdateArticleInput represents update article input. Nil fields are left unchanged.
type UpdateArticleInput struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Tags    *[]string `json:"tags"`
}

// CreateArticle publishes a new article; the author is always the actor
func (s *ArticleService) CreateArticle(ctx context.Context, actor domain.Actor, input *CreateArticleInput) (*models.ArticleResponse, error) {
	if !policy.CanCreateArticle(actor) {
		return nil, domain.ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrInvalidInput
	}

	if input.ProblemID != nil {
		if _, err := s.problemRepo.GetByID(ctx, *input.ProblemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrProblemNotFound
			}
			return nil, err
		}
	}

	article := &models.Article{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		AuthorID:  actor.ID,
		Tags:      models.JoinTags(input.Tags),
		ProblemID: input.ProblemID,
		EventID:   input.EventID,
	}

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	log.Printf("Article published: %s (id=%d, by %s)", article.Title, article.ID, actor.Handle)
	return s.getArticleResponse(ctx, article.ID)
}

// GetArticle returns one article by ID
func (s *ArticleService) GetArticle(ctx context.Context, id uint) (*models.ArticleResponse, error) {
	return s.getArticleResponse(ctx, id)
}

// ListArticles lists articles, newest first, with optional filters
func (s *ArticleService) ListArticles(ctx context.Context, filter repositories.ArticleFilter) ([]*models.ArticleResponse, error) {
	articles, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		responses = append(responses, a.ToResponse())
	}
	return responses, nil
}

// UpdateArticle edits an article (author or owner)
func (s *ArticleService) UpdateArticle(ctx context.Context, actor domain.Actor, id uint, input *UpdateArticleInput) (*models.ArticleResponse, error) {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanManageArticle(actor, article.AuthorID) {
		return nil, domain.ErrForbidden
	}

	if input.Title == nil && input.Content == nil && input.Tags == nil {
		return nil, domain.ErrInvalidInput
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, domain.ErrInvalidInput
		}
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, domain.ErrInvalidInput
		}
		article.Content = *input.Content
	}
	if input.Tags != nil {
		article.Tags = models.JoinTags(*input.Tags)
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	return article.ToResponse(), nil
}

// DeleteArticle removes an article (author or owner)
func (s *ArticleService) DeleteArticle(ctx context.Context, actor domain.Actor, id uint) error {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanManageArticle(actor, article.AuthorID) {
		return domain.ErrForbidden
	}

	return s.articleRepo.Delete(ctx, article.ID)
}

// GetProblem returns one problem with its examples decoded
func (s *ArticleService) GetProblem(ctx context.Context, id uint) (*models.ProblemResponse, error) {
	problem, err := s.problemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProblemNotFound
		}
		return nil, err
	}
	return problem.ToResponse(), nil
}

// ListProblems lists problems with an optional tag filter
func (s *ArticleService) ListProblems(ctx context.Context, tag string) ([]*models.ProblemResponse, error) {
	problems, err := s.problemRepo.List(ctx, tag)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ProblemResponse, 0, len(problems))
	for _, p := range problems {
		responses = append(responses, p.ToResponse())
	}
	return responses, nil
}

func (s *ArticleService) getArticle(ctx context.Context, id uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

func (s *ArticleService) getArticleResponse(ctx context.Context, id uint) (*models.ArticleResponse, error) {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return article.ToResponse(), nil
}
