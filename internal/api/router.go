package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gerarics/ecommerce-api/internal/api/handler"
	"github.com/gerarics/ecommerce-api/internal/api/middleware"
	"github.com/gerarics/ecommerce-api/internal/core/domain"
	"github.com/gerarics/ecommerce-api/internal/core/ports"
)

// Deps carries the constructed collaborators the router wires into handlers.
// Everything is passed explicitly; there are no ambient singletons beyond
// the process logger.
type Deps struct {
	AuthService ports.AuthService
	UserService ports.UserService
	TokenIssuer ports.TokenIssuer
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
	// Registry receives the HTTP metrics; nil means the default
	// Prometheus registry. Tests pass a fresh one per router.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer = deps.Registry
		gatherer = deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ecommerce",
		Registerer: registerer,
	}))

	authHandler := handler.NewAuthHandler(deps.AuthService)
	userHandler := handler.NewUserHandler(deps.UserService)
	requireAuth := middleware.Auth(deps.TokenIssuer)

	// --- Public auth routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Authenticated routes ---
	e.GET("/profile", userHandler.Profile, requireAuth)

	// --- Admin-only account routes ---
	users := e.Group("/users", requireAuth, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.ListUsers)
	users.GET("/:id", userHandler.GetUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: gatherer,
	}))
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
