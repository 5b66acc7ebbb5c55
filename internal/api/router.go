package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/akira/credential-service/docs"
	"github.com/akira/credential-service/internal/api/handler"
	"github.com/akira/credential-service/internal/api/middleware"
	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/core/ports"
)

// Deps holds everything the router needs. Construction happens in main.
type Deps struct {
	AuthService ports.AuthService
	TokenParser ports.TokenParser
	Logger      zerolog.Logger
	Checks      []handler.DependencyCheck

	// Registry receives the HTTP metrics. Nil means the Prometheus default
	// registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	promMiddleware := echoprometheus.MiddlewareConfig{Subsystem: "akira_http"}
	promHandler := echoprometheus.HandlerConfig{}
	if deps.Registry != nil {
		promMiddleware.Registerer = deps.Registry
		promHandler.Gatherer = deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promMiddleware))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(promHandler))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Logger)
	authMiddleware := middleware.Auth(deps.TokenParser)

	auth := e.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.PUT("/password", authHandler.UpdatePassword, authMiddleware, middleware.RBAC(domain.RoleUser))
	auth.GET("/me", authHandler.Me, authMiddleware)

	return e
}
