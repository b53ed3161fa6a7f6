package blogcounter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/techmaster-vietnam/blogcounter/config"
	"github.com/techmaster-vietnam/blogcounter/handlers"
	"github.com/techmaster-vietnam/blogcounter/metrics"
	"github.com/techmaster-vietnam/blogcounter/middleware"
	"github.com/techmaster-vietnam/blogcounter/models"
	"github.com/techmaster-vietnam/blogcounter/repository"
	"github.com/techmaster-vietnam/blogcounter/router"
	"github.com/techmaster-vietnam/blogcounter/service"
	"gorm.io/gorm"
)

// Config là alias cho config.Config để tránh conflict với package config khác
type Config = config.Config

// Blog và BlogSeed được export cho caller không muốn import models
type (
	Blog     = models.Blog
	BlogSeed = models.BlogSeed
)

// BlogCounter là main struct chứa tất cả dependencies
type BlogCounter struct {
	DB     *gorm.DB
	Config *Config
	Logger *logrus.Logger

	// Repositories
	BlogRepo *repository.BlogRepository

	// Services
	BlogService *service.BlogService
	AuthService *service.AuthService

	// Middleware
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    fiber.Handler

	// Handlers
	BlogHandler   *handlers.BlogHandler
	AuthHandler   *handlers.AuthHandler
	HealthHandler *handlers.HealthHandler

	Metrics *metrics.Metrics

	// Route registry
	RouteRegistry *router.RouteRegistry
}

// Builder là builder để tạo BlogCounter
type Builder struct {
	db       *gorm.DB
	config   *Config
	store    middleware.RateLimitStore
	registry *prometheus.Registry
	logger   *logrus.Logger
}

// New tạo mới Builder
func New(db *gorm.DB) *Builder {
	return &Builder{db: db}
}

// WithConfig set config cho builder
func (b *Builder) WithConfig(cfg *Config) *Builder {
	b.config = cfg
	return b
}

// WithRateLimitStore bật rate limiting cho các route đếm (thường là *redis.Client)
func (b *Builder) WithRateLimitStore(store middleware.RateLimitStore) *Builder {
	b.store = store
	return b
}

// WithRegistry set prometheus registry (mặc định tạo registry mới)
func (b *Builder) WithRegistry(reg *prometheus.Registry) *Builder {
	b.registry = reg
	return b
}

// WithLogger set logrus logger (mặc định logrus.StandardLogger())
func (b *Builder) WithLogger(log *logrus.Logger) *Builder {
	b.logger = log
	return b
}

// Initialize khởi tạo BlogCounter với tất cả dependencies
func (b *Builder) Initialize() (*BlogCounter, error) {
	if b.config == nil {
		b.config = config.LoadConfig()
	}
	if b.registry == nil {
		b.registry = prometheus.NewRegistry()
	}
	if b.logger == nil {
		b.logger = logrus.StandardLogger()
	}

	// Initialize repositories
	blogRepo := repository.NewBlogRepository(b.db)

	// Initialize services
	m := metrics.New(b.registry)
	blogService := service.NewBlogService(blogRepo, b.config.Blog.DefaultTitle)
	blogService.SetObserver(m)
	authService := service.NewAuthService(b.config)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	var limiter fiber.Handler
	if b.store != nil {
		limiter = middleware.RateLimit(b.store, "counter", b.config.Redis.RateLimit, b.config.Redis.RateLimitSpan, b.logger)
	}

	return &BlogCounter{
		DB:             b.db,
		Config:         b.config,
		Logger:         b.logger,
		BlogRepo:       blogRepo,
		BlogService:    blogService,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		RateLimiter:    limiter,
		BlogHandler:    handlers.NewBlogHandler(blogService, b.config.Admin.BackfillPublic),
		AuthHandler:    handlers.NewAuthHandler(authService),
		HealthHandler:  handlers.NewHealthHandler(b.db),
		Metrics:        m,
		RouteRegistry:  router.NewRouteRegistry(),
	}, nil
}

// NewApp creates the fiber app with the shared middleware stack and every route
func (bc *BlogCounter) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Blog Counter",
		ReadTimeout:  bc.Config.Server.ReadTimeout,
		WriteTimeout: bc.Config.Server.WriteTimeout,
		ErrorHandler: handlers.ErrorHandler(bc.Logger),
	})

	// RequestID must be before logger
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: bc.Logger.Out,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: bc.Config.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(bc.Metrics.Middleware(bc.RouteRegistry.RouteLabel))

	bc.SetupRoutes(app)
	return app
}

// SetupRoutes đăng ký tất cả routes vào app
func (bc *BlogCounter) SetupRoutes(app *fiber.App) {
	r := router.NewRouter(app, bc.RouteRegistry, bc.AuthMiddleware, bc.RateLimiter)

	r.Get("/blogs", bc.BlogHandler.Blogs).
		OptionalAdmin().
		Description("List records, creating the requested ids first").
		Register()
	r.Post("/blogs", bc.BlogHandler.Blogs).
		OptionalAdmin().
		Description("List records, creating the requested ids first").
		Register()
	r.Get("/blogs/:id", bc.BlogHandler.Get).
		Public().
		Description("Get one record without counting a view").
		Register()
	r.Post("/views", bc.BlogHandler.RegisterView).
		Public().
		RateLimited().
		Description("Count a view and return the record").
		Register()
	r.Post("/increment-view", bc.BlogHandler.IncrementView).
		Public().
		RateLimited().
		Description("Count a view of an existing record").
		Register()
	r.Post("/increment-like", bc.BlogHandler.IncrementLike).
		Public().
		RateLimited().
		Description("Count a like of an existing record").
		Register()

	admin := r.Group("/admin")
	admin.Post("/backfill", bc.BlogHandler.Backfill).
		Admin().
		RateLimited().
		Description("Create the records listed in a manifest").
		Register()

	auth := r.Group("/auth")
	auth.Post("/token", bc.AuthHandler.Token).
		Public().
		RateLimited().
		Description("Exchange the admin password for a token").
		Register()

	r.Get("/healthz", bc.HealthHandler.Health).
		Public().
		Description("Database reachability").
		Register()
	r.Get("/metrics", bc.Metrics.Handler()).
		Public().
		Description("Prometheus metrics").
		Register()

	router.MethodNotAllowed(app, bc.RouteRegistry)

	for _, route := range bc.RouteRegistry.GetAllRoutes() {
		bc.Logger.WithFields(logrus.Fields{
			"method": route.Method,
			"path":   route.FullPath,
			"access": route.AccessType,
			"limit":  route.RateLimited,
		}).Debug(route.Description)
	}
}
