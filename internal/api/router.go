package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/exercisetracker/exercise-tracker/docs" // swagger docs
	"github.com/exercisetracker/exercise-tracker/internal/api/handler"
	"github.com/exercisetracker/exercise-tracker/internal/api/middleware"
	"github.com/exercisetracker/exercise-tracker/internal/core/ports"
)

// Options carries everything the router needs. Registerer and Gatherer
// default to the Prometheus default registry.
type Options struct {
	Users     ports.UserService
	Exercises ports.ExerciseService
	Logs      ports.LogService

	Logger       zerolog.Logger
	LegacyErrors bool
	Checks       map[string]handler.DependencyCheck

	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger, opts.LegacyErrors)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "exercise_tracker",
		Subsystem:  "http",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/metrics" || strings.HasPrefix(p, "/swagger")
		},
	}))

	// --- API routes ---
	userHandler := handler.NewUserHandler(opts.Users)
	exerciseHandler := handler.NewExerciseHandler(opts.Exercises)
	logHandler := handler.NewLogHandler(opts.Logs)

	api := e.Group("/api")
	api.POST("/users", userHandler.Create)
	api.GET("/users", userHandler.List)
	api.POST("/users/:_id/exercises", exerciseHandler.Create)
	api.GET("/users/:_id/logs", logHandler.Get)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(opts.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational surfaces ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", indexPage)

	return e
}
