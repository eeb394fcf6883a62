// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"fmt"
	"time"

	"murmur/internal/cache"
	"murmur/internal/config"
	"murmur/internal/database"
	"murmur/internal/middleware"
	"murmur/internal/repository"
	"murmur/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	auth           *middleware.Auth
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	replyRepo    repository.ReplyRepository
	tagRepo      repository.TagRepository
	reactionRepo repository.ReactionRepository

	userService     *service.UserService
	postService     *service.PostService
	commentService  *service.CommentService
	replyService    *service.ReplyService
	tagService      *service.TagService
	reactionService *service.ReactionService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg, middleware.Logger)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient()), nil
}

// NewServerWithDeps creates a Server using already-initialized
// dependencies. Tests use this with a sqlite database and either a
// miniredis-backed client or nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		auth:           middleware.NewAuth(cfg),
		promMiddleware: middleware.InitMetrics("murmur-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		replyRepo:      repository.NewReplyRepository(db),
		tagRepo:        repository.NewTagRepository(db),
		reactionRepo:   repository.NewReactionRepository(db),
	}

	s.userService = service.NewUserService(s.userRepo)
	s.postService = service.NewPostService(s.postRepo, s.tagRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.replyService = service.NewReplyService(s.replyRepo, s.commentRepo, s.postRepo)
	s.tagService = service.NewTagService(s.tagRepo, s.postRepo)
	s.reactionService = service.NewReactionService(
		s.reactionRepo, s.postRepo, s.commentRepo, s.replyRepo, s.userRepo)

	return s
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Murmur Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public routes; optional auth resolves a viewer when a token is
	// presented so draft visibility works.
	publicPosts := api.Group("/posts", s.auth.Optional())
	publicPosts.Get("/", s.ListPosts)
	publicPosts.Get("/:id/comments", s.ListComments)
	publicPosts.Get("/:id/comments/:commentId/replies", s.ListReplies)
	publicPosts.Get("/:id/comments/:commentId/replies/:replyId", s.GetReply)
	publicPosts.Get("/:id/comments/:commentId", s.GetComment)
	publicPosts.Get("/:id/tags", s.ListPostTags)
	publicPosts.Get("/:id", s.GetPost)

	publicTags := api.Group("/tags")
	publicTags.Get("/", s.ListTags)
	publicTags.Get("/:id", s.GetTag)

	// Protected routes
	protected := api.Group("", s.auth.Required())

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/:id", s.GetUserProfile)

	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes before the generic /:id routes.
	posts.Post("/:id/activate", s.ActivatePost)
	posts.Post("/:id/modify", s.ModifyPost)
	posts.Post("/:id/archive", s.ArchivePost)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/comments/:commentId", s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	posts.Post("/:id/comments/:commentId/archive", s.ArchiveComment)
	posts.Post("/:id/comments/:commentId/activate", s.ActivateComment)
	posts.Post("/:id/comments/:commentId/replies", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_reply"), s.CreateReply)
	posts.Put("/:id/comments/:commentId/replies/:replyId", s.UpdateReply)
	posts.Delete("/:id/comments/:commentId/replies/:replyId", s.DeleteReply)
	posts.Post("/:id/comments/:commentId/replies/:replyId/archive", s.ArchiveReply)
	posts.Post("/:id/comments/:commentId/replies/:replyId/activate", s.ActivateReply)
	posts.Post("/:id/tags/:tagId", s.AddTagToPost)
	posts.Delete("/:id/tags/:tagId", s.RemoveTagFromPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	tags := protected.Group("/tags")
	tags.Post("/", s.CreateTag)
	tags.Post("/:id/archive", s.ArchiveTag)
	tags.Put("/:id", s.UpdateTag)
	tags.Delete("/:id", s.DeleteTag)

	reactions := protected.Group("/reactions")
	reactions.Post("/", s.React)
}

// Shutdown releases server-held resources after the listener stops.
func (s *Server) Shutdown() error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx := c.Context()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is a soft dependency: the API degrades to uncached reads
	// without it.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}
