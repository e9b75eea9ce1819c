// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	_ "unpolished/docs" // swagger docs
	"unpolished/internal/bootstrap"
	"unpolished/internal/config"
	"unpolished/internal/featureflags"
	"unpolished/internal/middleware"
	"unpolished/internal/models"
	"unpolished/internal/notifications"
	"unpolished/internal/repository"
	"unpolished/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const scheduledPublishInterval = time.Minute

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	auth           *middleware.Authenticator
	featureFlags   *featureflags.Manager
	notifier       *notifications.Notifier
	hub            *notifications.Hub

	userRepo       repository.UserRepository
	blogRepo       repository.BlogRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
	followRepo     repository.FollowRepository

	authService    *service.AuthService
	blogService    *service.BlogService
	commentService *service.CommentService
	profileService *service.ProfileService
	userService    *service.UserService
}

// NewServer connects to the database and Redis from cfg, brings the schema
// up to date and builds a Server.
func NewServer(cfg *config.Config) (*Server, error) {
	db, rdb, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemo: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}
	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("unpolished-api"),
		auth:           middleware.NewAuthenticator(cfg, redisClient),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
		hub:            notifications.NewHub(),
		userRepo:       repository.NewUserRepository(db),
		blogRepo:       repository.NewBlogRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		engagementRepo: repository.NewEngagementRepository(db),
		followRepo:     repository.NewFollowRepository(db),
	}
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}

	s.authService = service.NewAuthService(s.userRepo, s.auth)
	s.blogService = service.NewBlogService(s.blogRepo, s.userRepo, s.engagementRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.blogRepo, s.featureFlags)
	s.profileService = service.NewProfileService(s.userRepo, s.blogRepo, s.commentRepo, s.engagementRepo, s.followRepo)
	s.userService = service.NewUserService(s.userRepo, s.blogRepo)

	return s, nil
}

// NewApp creates the Fiber app with JSON handled by json-iterator and API
// errors rendered in the standard envelope.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:     "Unpolished API",
		BodyLimit:   2 * 1024 * 1024,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			return respondError(c, models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Propagates request and trace IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := strings.Join(s.config.Origins(), ",")
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api/v1")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Unpolished API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	required := s.auth.Required()
	optional := s.auth.Optional()

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 5, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/signin", middleware.RateLimit(s.redis, 10, 5*time.Minute, "signin"), s.Signin)
	auth.Post("/signout", required, s.Signout)

	// Specific blog routes before the generic /:slug routes.
	blog := api.Group("/blog")
	blog.Get("/bulk", required, s.ListMyBlogs)
	blog.Get("/feed", optional, s.GetFeed)
	blog.Post("/", required, s.CreateBlog)
	blog.Put("/", required, s.UpdateBlog)
	blog.Post("/:slug/like", required, s.LikeBlog)
	blog.Delete("/:slug/like", required, s.UnlikeBlog)
	blog.Post("/:slug/bookmark", required, s.BookmarkBlog)
	blog.Delete("/:slug/bookmark", required, s.UnbookmarkBlog)
	blog.Get("/:slug", optional, s.GetBlog)
	blog.Delete("/:slug", required, s.DeleteBlog)

	comments := api.Group("/comments")
	comments.Get("/:blogId", optional, s.GetComments)
	comments.Post("/:blogId", required,
		middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	comments.Put("/:commentId/status", required, s.SetCommentStatus)
	comments.Put("/:commentId", required, s.UpdateComment)
	comments.Delete("/:commentId", required, s.DeleteComment)

	profile := api.Group("/profile")
	profile.Get("/activity/:kind", required, s.GetActivity)
	profile.Put("/", required, s.UpdateProfile)
	profile.Post("/author", required, s.UpsertAuthorProfile)
	profile.Post("/:userId/follow", required, s.Follow)
	profile.Delete("/:userId/follow", required, s.Unfollow)
	profile.Get("/:username", optional, s.GetProfile)

	user := api.Group("/user")
	user.Put("/updateProfile", required, s.UpdateBasicProfile)
	user.Get("/:username", optional, s.GetUser)

	api.Get("/feature-flags", optional, s.GetFeatureFlags)
	api.Get("/ws", s.auth.RequiredWS(), s.RequireUpgrade, s.WebsocketHandler())
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
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is optional: without it the API runs uncached on a single instance.
	redisStatus := "unavailable"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus == "unhealthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
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

// Start builds the app, wires realtime fan-out and the scheduled publisher,
// and listens until Shutdown.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := NewApp()
	s.app = app
	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			middleware.Logger.Error("Failed to start notification wiring", slog.String("error", err.Error()))
		}
	}
	go s.runScheduledPublisher(ctx, scheduledPublishInterval)

	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return app.Listen(":" + s.config.Port)
}

// runScheduledPublisher promotes due SCHEDULED blogs until ctx is done.
func (s *Server) runScheduledPublisher(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			published, err := s.blogService.PublishScheduled(ctx)
			if err != nil {
				middleware.Logger.ErrorContext(ctx, "Scheduled publish failed", slog.String("error", err.Error()))
			}
			if len(published) > 0 {
				middleware.Logger.InfoContext(ctx, "Published scheduled blogs", slog.Int("count", len(published)))
			}
			for _, blog := range published {
				s.notifyBlogPublished(ctx, blog)
			}
		}
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("Error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("Error shutting down websocket hub", slog.String("error", err.Error()))
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("Error closing database", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("Error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
