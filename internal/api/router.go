package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/homeops/portal/internal/api/handler"
	"github.com/homeops/portal/internal/api/middleware"
	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/validation"
)

// Deps are the services the gateway routes to.
type Deps struct {
	Users      ports.UserResolver
	Dashboards ports.DashboardLoader
	// Reports holds one report source per role allowed to download.
	Reports map[string]ports.ReportSource
	Photos  ports.PhotoUploader
	// Checks are pinged by the readiness probe.
	Checks map[string]ports.Pinger
	// Registry receives the HTTP metrics; nil uses the default registerer.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer = deps.Registry
		gatherer = prometheus.Gatherers{prometheus.DefaultGatherer, deps.Registry}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gateway",
		Registerer: registerer,
	}))

	// --- Probes and metrics (no auth required) ---
	health := handler.NewHealthHandler(deps.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	// --- Portal routes ---
	portal := handler.NewPortalHandler(deps.Dashboards)
	files := handler.NewFileHandler(deps.Reports, deps.Photos, deps.Log)

	v1 := e.Group("/v1", middleware.Auth(deps.Users))
	v1.GET("/me", portal.Me)
	v1.GET("/dashboard", portal.Dashboard)
	v1.GET("/reports/:kind", files.Report, middleware.RBAC(domain.RoleAdmin, domain.RoleFacilityManager))
	v1.POST("/site-visits/:id/photos", files.UploadPhoto, middleware.RBAC(domain.RoleContractor))

	return e
}

// requestLogger logs one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
