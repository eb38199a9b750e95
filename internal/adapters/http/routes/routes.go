package routes

import (
	"clubhub/internal/adapters/http/handlers"
	"clubhub/internal/adapters/http/middleware"
	"clubhub/internal/adapters/persistence/repositories"
	"clubhub/internal/config"
	"clubhub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	problemRepo := repositories.NewProblemRepository(db)

	// External handle verifier (nil disables verification)
	var verifier services.HandleVerifier
	if cfg.Verifier.Enabled {
		verifier = services.NewCodeforcesService(cfg.Verifier.BaseURL, cfg.Verifier.Timeout)
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, verifier, cfg)
	userService := services.NewUserService(userRepo, verifier, cfg.Owner.Handle)
	eventService := services.NewEventService(eventRepo)
	sessionService := services.NewSessionService(sessionRepo)
	articleService := services.NewArticleService(articleRepo, problemRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	articleHandler := handlers.NewArticleHandler(articleService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// User management routes
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	setupUserRoutes(userRoutes, userHandler)

	// Event routes
	eventRoutes := apiV1.Group("/events")
	setupEventRoutes(eventRoutes, eventHandler, cfg)

	// Attendance session routes
	sessionRoutes := apiV1.Group("/sessions")
	sessionRoutes.Use(middleware.AuthMiddleware(cfg))
	setupSessionRoutes(sessionRoutes, sessionHandler)

	// Blog routes
	blogRoutes := apiV1.Group("/blogs")
	setupBlogRoutes(blogRoutes, articleHandler, cfg)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited; register also picks up an owner token so
	// the owner can assign roles)
	router.Post("/register", middleware.AuthRateLimiter(), middleware.OptionalAuth(cfg), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes (authenticated)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", middleware.OfficeOrOwner(), handler.ListUsers)
	router.Get("/members-attendance", middleware.OfficeOrOwner(), handler.MembersAttendance)
	router.Get("/managers-attendance", middleware.OfficeOrOwner(), handler.ManagersAttendance)
	router.Put("/password", handler.ChangePassword)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", middleware.OwnerOnly(), handler.DeleteUser)
}

// setupEventRoutes configures event routes. Reads are public, everything
// else requires authentication.
func setupEventRoutes(router fiber.Router, handler *handlers.EventHandler, cfg *config.Config) {
	router.Get("/", handler.ListEvents)
	router.Get("/:id", handler.GetEvent)
	router.Get("/:id/discussions", handler.ListDiscussions)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.Post("/", middleware.EventStaff(), handler.CreateEvent)
	authed.Put("/:id", middleware.EventStaff(), handler.UpdateEvent)
	authed.Delete("/:id", middleware.OwnerOnly(), handler.DeleteEvent)

	authed.Post("/:id/register", handler.Register)
	authed.Delete("/:id/register", handler.Unregister)
	authed.Post("/:id/payment", handler.MarkPayment)
	authed.Post("/:id/interest", handler.SetInterest)

	authed.Post("/:id/discussions", handler.PostDiscussion)
	authed.Put("/:id/discussions/:discussionId", handler.EditDiscussion)
	authed.Delete("/:id/discussions/:discussionId", handler.DeleteDiscussion)
	authed.Put("/:id/discussions/:discussionId/pin", middleware.OfficeOrOwner(), handler.PinDiscussion)
	authed.Post("/:id/discussions/:discussionId/upvote", handler.ToggleUpvote)
}

// setupSessionRoutes configures attendance session routes (authenticated)
func setupSessionRoutes(router fiber.Router, handler *handlers.SessionHandler) {
	router.Post("/code", middleware.ManagerOrOwner(), handler.IssueCode)
	router.Post("/presence", handler.MarkPresence)
}

// setupBlogRoutes configures blog routes. Reads are public.
func setupBlogRoutes(router fiber.Router, handler *handlers.ArticleHandler, cfg *config.Config) {
	router.Get("/", handler.ListArticles)
	router.Get("/problems", handler.ListProblems)
	router.Get("/problems/:id", handler.GetProblem)
	router.Get("/:id", handler.GetArticle)

	authed := router.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))

	authed.Post("/", middleware.ManagerOrOwner(), handler.CreateArticle)
	authed.Put("/:id", handler.UpdateArticle)
	authed.Delete("/:id", handler.DeleteArticle)
}
