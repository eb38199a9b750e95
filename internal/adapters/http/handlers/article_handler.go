package handlers

import (
	"errors"

	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"
	"clubhub/internal/core/services"
	"clubhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ArticleHandler handles blog article and problem endpoints
type ArticleHandler struct {
	articleService *services.ArticleService
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// CreateArticle handles article publishing
// @Summary Create article
// @Description Publish a new blog article (manager/owner)
// @Tags Blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateArticleInput true "Article data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /blogs [post]
func (h *ArticleHandler) CreateArticle(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateArticleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	article, err := h.articleService.CreateArticle(c.Context(), actor, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to publish articles")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Title and content are required")
		case errors.Is(err, domain.ErrProblemNotFound):
			return response.NotFound(c, "Linked problem not found")
		default:
			return response.InternalServerError(c, "Failed to create article")
		}
	}

	return response.Created(c, "Article published successfully", fiber.Map{
		"article": article,
	})
}

// ListArticles handles article listing
// @Summary List articles
// @Description List articles, newest first, with optional tag/event/problem filters
// @Tags Blog
// @Accept json
// @Produce json
// @Param tag query string false "Filter by tag"
// @Param event_id query int false "Filter by linked event"
// @Param problem_id query int false "Filter by linked problem"
// @Success 200 {object} response.Response
// @Router /blogs [get]
func (h *ArticleHandler) ListArticles(c *fiber.Ctx) error {
	filter := repositories.ArticleFilter{
		Tag: c.Query("tag"),
	}
	if v := c.QueryInt("event_id", 0); v > 0 {
		id := uint(v)
		filter.EventID = &id
	}
	if v := c.QueryInt("problem_id", 0); v > 0 {
		id := uint(v)
		filter.ProblemID = &id
	}

	articles, err := h.articleService.ListArticles(c.Context(), filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list articles")
	}

	return response.Success(c, "Articles retrieved successfully", fiber.Map{
		"articles": articles,
	})
}

// GetArticle handles fetching one article
// @Summary Get article
// @Description Get an article by ID
// @Tags Blog
// @Accept json
// @Produce json
// @Param id path int true "Article ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blogs/{id} [get]
func (h *ArticleHandler) GetArticle(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid article ID")
	}

	article, err := h.articleService.GetArticle(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrArticleNotFound) {
			return response.NotFound(c, "Article not found")
		}
		return response.InternalServerError(c, "Failed to get article")
	}

	return response.Success(c, "Article retrieved successfully", fiber.Map{
		"article": article,
	})
}

// UpdateArticle handles article edits
// @Summary Update article
// @Description Edit an article (author or owner)
// @Tags Blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param body body services.UpdateArticleInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blogs/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid article ID")
	}

	var input services.UpdateArticleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	article, err := h.articleService.UpdateArticle(c.Context(), actor, id, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrArticleNotFound):
			return response.NotFound(c, "Article not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to edit this article")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "No valid fields to update")
		default:
			return response.InternalServerError(c, "Failed to update article")
		}
	}

	return response.Success(c, "Article updated successfully", fiber.Map{
		"article": article,
	})
}

// DeleteArticle handles article deletion
// @Summary Delete article
// @Description Delete an article (author or owner)
// @Tags Blog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blogs/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *fiber.Ctx) error {
	actor, ok := actorFromLocals(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid article ID")
	}

	if err := h.articleService.DeleteArticle(c.Context(), actor, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrArticleNotFound):
			return response.NotFound(c, "Article not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete this article")
		default:
			return response.InternalServerError(c, "Failed to delete article")
		}
	}

	return response.Success(c, "Article deleted successfully", nil)
}

// ListProblems handles problem listing
// @Summary List problems
// @Description List practice problems with an optional tag filter
// @Tags Blog
// @Accept json
// @Produce json
// @Param tag query string false "Filter by tag"
// @Success 200 {object} response.Response
// @Router /blogs/problems [get]
func (h *ArticleHandler) ListProblems(c *fiber.Ctx) error {
	problems, err := h.articleService.ListProblems(c.Context(), c.Query("tag"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list problems")
	}

	return response.Success(c, "Problems retrieved successfully", fiber.Map{
		"problems": problems,
	})
}

// GetProblem handles fetching one problem
// @Summary Get problem
// @Description Get a practice problem with its examples
// @Tags Blog
// @Accept json
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /blogs/problems/{id} [get]
func (h *ArticleHandler) GetProblem(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid problem ID")
	}

	problem, err := h.articleService.GetProblem(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProblemNotFound) {
			return response.NotFound(c, "Problem not found")
		}
		return response.InternalServerError(c, "Failed to get problem")
	}

	return response.Success(c, "Problem retrieved successfully", fiber.Map{
		"problem": problem,
	})
}
