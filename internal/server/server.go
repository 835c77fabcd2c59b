// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"odbyte/internal/blog"
	"odbyte/internal/cache"
	"odbyte/internal/config"
	"odbyte/internal/database"
	"odbyte/internal/middleware"
	"odbyte/internal/models"
	"odbyte/internal/payment"
	"odbyte/internal/repository"
	"odbyte/internal/service"
	"odbyte/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "odbyte_session"

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	blog           *blog.Loader

	userRepo     repository.UserRepository
	promptRepo   repository.PromptRepository
	favoriteRepo repository.FavoriteRepository
	bundleRepo   repository.BundleRepository
	paymentRepo  repository.PaymentRepository

	userService     *service.UserService
	promptService   *service.PromptService
	favoriteService *service.FavoriteService
	bundleService   *service.BundleService
	paymentService  *service.PaymentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	gateway := payment.NewClient(payment.Config{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpaySecret,
	})

	return NewServerWithDeps(cfg, db, redisClient, gateway)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with sqlite, miniredis and a fake gateway.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, gateway payment.Gateway) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	prom := middleware.InitMetrics("odbyte-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		sessions:       session.NewStore(redisClient, time.Duration(cfg.SessionTTLDays)*24*time.Hour),
		blog:           blog.NewLoader(cfg.BlogDir),
		userRepo:       userRepo,
		promptRepo:     promptRepo,
		favoriteRepo:   favoriteRepo,
		bundleRepo:     bundleRepo,
		paymentRepo:    paymentRepo,
	}

	server.userService = service.NewUserService(userRepo)
	server.promptService = service.NewPromptService(promptRepo, favoriteRepo, userRepo)
	server.favoriteService = service.NewFavoriteService(favoriteRepo, promptRepo)
	server.bundleService = service.NewBundleService(bundleRepo, promptRepo, userRepo)
	server.paymentService = service.NewPaymentService(paymentRepo, userRepo, gateway)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// CORS before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Public browse routes. Prompt detail accepts an optional session so
	// owners can see their private prompts through the same route.
	api.Get("/explore", s.Explore)
	api.Get("/explore/facets", s.ExploreFacets)
	api.Get("/prompts/:id", s.GetPrompt)
	api.Get("/b/:link", s.ViewBundleByLink)
	api.Get("/blog", s.ListBlogPosts)
	api.Get("/blog/:slug", s.GetBlogPost)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Get("/me", s.GetMyProfile)
	protected.Get("/dashboard", s.GetDashboard)

	prompts := protected.Group("/prompts")
	prompts.Post("/", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_prompt"), s.CreatePrompt)
	prompts.Post("/:id/submit-premium", s.SubmitPremium)
	prompts.Put("/:id", s.UpdatePrompt)
	prompts.Delete("/:id", s.DeletePrompt)

	favorites := protected.Group("/favorites")
	favorites.Get("/", s.ListFavorites)
	favorites.Post("/:promptId", s.ToggleFavorite)

	bundles := protected.Group("/bundles")
	bundles.Get("/", s.ListBundles)
	bundles.Post("/", s.CreateBundle)
	bundles.Get("/:id", s.GetBundle)
	bundles.Put("/:id", s.UpdateBundle)
	bundles.Delete("/:id", s.DeleteBundle)

	// Payment routes
	protected.Get("/upgrade", s.GetUpgradeOptions)
	protected.Post("/orders", middleware.RateLimit(
		s.redis, 5, time.Minute, "create_order"), s.CreateOrder)
	protected.Post("/payments/verify", s.VerifyPayment)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/prompts/pending", s.ListPendingPrompts)
	admin.Post("/prompts/:id/approve", s.ApprovePrompt)
	admin.Post("/prompts/:id/reject", s.RejectPrompt)
	admin.Post("/prompts/:id/remove-premium", s.RemovePremium)
	admin.Get("/users", s.ListUsers)
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

	// Sessions live in Redis, so readiness requires it.
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
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
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

// sessionToken extracts the opaque token from the session cookie or, for
// API clients, a bearer Authorization header.
func sessionToken(c *fiber.Ctx) string {
	if tok := c.Cookies(SessionCookie); tok != "" {
		return tok
	}
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return ""
}

// AuthRequired resolves the opaque session token against Redis and rejects
// the request when absent or expired. The token carries no claims; all
// session state lives server-side and is revocable at any time.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}

		sess, err := s.sessions.Get(c.Context(), token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if sess == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired session"))
		}

		c.Locals("userID", sess.UserID)
		c.Locals("sessionToken", token)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, sess.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired rejects non-admin users with 403. The flag is re-read from
// the user row on every request; sessions never carry authorization state.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdminByUserID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// optionalUserID resolves the session if one is presented but does not
// enforce it. Public routes use this to personalize responses.
func (s *Server) optionalUserID(c *fiber.Ctx) uint {
	token := sessionToken(c)
	if token == "" {
		return 0
	}
	sess, err := s.sessions.Get(c.Context(), token)
	if err != nil || sess == nil {
		return 0
	}
	return sess.UserID
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Odbyte API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
