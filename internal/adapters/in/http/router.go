package http

import (
	"context"
	"log/slog"
	"net/http"

	"tracking/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// HealthCheck reports whether a dependency /health relies on is reachable.
type HealthCheck func(ctx context.Context) error

// NewRouter builds the echo instance serving the API, health, metrics and swagger UI.
// /health answers 503 when any of checks fails.
func NewRouter(
	ctx context.Context,
	server ServerInterface,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
	checks ...HealthCheck,
) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if err = registerSwagger(doc); err != nil {
		return nil, err
	}

	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(RequestMetrics(m))
	e.Use(RequestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		for _, check := range checks {
			if err := check(c.Request().Context()); err != nil {
				logger.Warn("health check failed", "error", err)
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("", validator)
	RegisterHandlers(api, server, "")

	return e, nil
}
