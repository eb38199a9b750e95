package services

import (
	"context"
	"testing"

	"clubhub/internal/adapters/persistence/models"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArticleService() (*ArticleService, *fakeArticleRepo, *fakeProblemRepo) {
	articles := newFakeArticleRepo()
	problems := newFakeProblemRepo()
	return NewArticleService(articles, problems), articles, problems
}

func TestCreateArticlePolicy(t *testing.T) {
	svc, _, _ := newTestArticleService()

	input := &CreateArticleInput{Title: "Editorial", Content: "Solution sketch."}

	for _, role := range []domain.Role{domain.RoleMember, domain.RoleOffice} {
		_, err := svc.CreateArticle(context.Background(), domain.Actor{ID: 9, Role: role}, input)
		assert.ErrorIs(t, err, domain.ErrForbidden, "role %s", role)
	}

	manager := domain.Actor{ID: 3, Handle: "mgr", Role: domain.RoleManager}
	created, err := svc.CreateArticle(context.Background(), manager, input)
	require.NoError(t, err)
	assert.Equal(t, "Editorial", created.Title)
}

func TestCreateArticleValidation(t *testing.T) {
	svc, _, _ := newTestArticleService()
	manager := domain.Actor{ID: 3, Role: domain.RoleManager}

	_, err := svc.CreateArticle(context.Background(), manager, &CreateArticleInput{Title: " ", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateArticle(context.Background(), manager, &CreateArticleInput{Title: "x", Content: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateArticleProblemLink(t *testing.T) {
	svc, _, problems := newTestArticleService()
	manager := domain.Actor{ID: 3, Role: domain.RoleManager}

	missing := uint(42)
	_, err := svc.CreateArticle(context.Background(), manager, &CreateArticleInput{
		Title:     "Editorial for problem 42",
		Content:   "...",
		ProblemID: &missing,
	})
	assert.ErrorIs(t, err, domain.ErrProblemNotFound)

	problem := &models.Problem{Title: "Two Sum", Statement: "Find two numbers.", TimeLimitMs: 1000, MemoryLimit: 256, AuthorID: 3}
	require.NoError(t, problems.Create(context.Background(), problem))

	created, err := svc.CreateArticle(context.Background(), manager, &CreateArticleInput{
		Title:     "Two Sum editorial",
		Content:   "Use a hash map.",
		ProblemID: &problem.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ProblemID)
	assert.Equal(t, problem.ID, *created.ProblemID)
}

func TestUpdateArticleAuthorOrOwner(t *testing.T) {
	svc, _, _ := newTestArticleService()

	author := domain.Actor{ID: 3, Role: domain.RoleManager}
	created, err := svc.CreateArticle(context.Background(), author, &CreateArticleInput{
		Title:   "Draft",
		Content: "v1",
		Tags:    []string{"dp", "graphs"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dp", "graphs"}, created.Tags)

	// Another manager can't touch it
	other := domain.Actor{ID: 7, Role: domain.RoleManager}
	_, err = svc.UpdateArticle(context.Background(), other, created.ID, &UpdateArticleInput{Content: strptr("v2")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// At least one field is required
	_, err = svc.UpdateArticle(context.Background(), author, created.ID, &UpdateArticleInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := svc.UpdateArticle(context.Background(), author, created.ID, &UpdateArticleInput{Content: strptr("v2")})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Content)

	owner := domain.Actor{ID: 1, Role: domain.RoleOwner}
	tags := []string{"dp"}
	updated, err = svc.UpdateArticle(context.Background(), owner, created.ID, &UpdateArticleInput{Tags: &tags})
	require.NoError(t, err)
	assert.Equal(t, []string{"dp"}, updated.Tags)
}

func TestDeleteArticle(t *testing.T) {
	svc, _, _ := newTestArticleService()

	author := domain.Actor{ID: 3, Role: domain.RoleManager}
	created, err := svc.CreateArticle(context.Background(), author, &CreateArticleInput{Title: "Gone soon", Content: "x"})
	require.NoError(t, err)

	other := domain.Actor{ID: 7, Role: domain.RoleManager}
	assert.ErrorIs(t, svc.DeleteArticle(context.Background(), other, created.ID), domain.ErrForbidden)

	require.NoError(t, svc.DeleteArticle(context.Background(), author, created.ID))

	_, err = svc.GetArticle(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrArticleNotFound)
}

func TestListArticlesFilters(t *testing.T) {
	svc, _, _ := newTestArticleService()
	author := domain.Actor{ID: 3, Role: domain.RoleManager}

	eventID := uint(5)
	_, err := svc.CreateArticle(context.Background(), author, &CreateArticleInput{Title: "A", Content: "x", Tags: []string{"dp"}})
	require.NoError(t, err)
	_, err = svc.CreateArticle(context.Background(), author, &CreateArticleInput{Title: "B", Content: "x", Tags: []string{"greedy"}, EventID: &eventID})
	require.NoError(t, err)

	all, err := svc.ListArticles(context.Background(), repositories.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Newest first
	assert.Equal(t, "B", all[0].Title)

	byTag, err := svc.ListArticles(context.Background(), repositories.ArticleFilter{Tag: "dp"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "A", byTag[0].Title)

	byEvent, err := svc.ListArticles(context.Background(), repositories.ArticleFilter{EventID: &eventID})
	require.NoError(t, err)
	require.Len(t, byEvent, 1)
	assert.Equal(t, "B", byEvent[0].Title)
}

func TestProblems(t *testing.T) {
	svc, _, problems := newTestArticleService()

	_, err := svc.GetProblem(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrProblemNotFound)

	examples, err := models.EncodeExamples([]models.ProblemExample{{Input: "1 2", Output: "3"}})
	require.NoError(t, err)

	problem := &models.Problem{
		Title:       "A+B",
		Statement:   "Print the sum.",
		TimeLimitMs: 1000,
		MemoryLimit: 256,
		AuthorID:    3,
		Examples:    examples,
		Tags:        models.JoinTags([]string{"math", "implementation"}),
	}
	require.NoError(t, problems.Create(context.Background(), problem))

	got, err := svc.GetProblem(context.Background(), problem.ID)
	require.NoError(t, err)
	assert.Equal(t, "A+B", got.Title)
	require.Len(t, got.Examples, 1)
	assert.Equal(t, "1 2", got.Examples[0].Input)

	byTag, err := svc.ListProblems(context.Background(), "math")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)

	none, err := svc.ListProblems(context.Background(), "geometry")
	require.NoError(t, err)
	assert.Len(t, none, 0)
}
