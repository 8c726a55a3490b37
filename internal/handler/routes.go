// Package handler holds the Echo handlers and route wiring.
package handler

import (
	"github.com/labstack/echo/v4"

	"tqf-proxy/internal/config"
	"tqf-proxy/internal/metrics"
	"tqf-proxy/internal/service"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// The metrics endpoint is mounted only when enabled in config.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, proxy *ProxyHandler, health *HealthHandler, screen *ScreenHandler) {
	e.GET("/", screen.Index)
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	e.GET(service.ConsciousnessRoute.Path, proxy.Consciousness)
	e.GET(service.RawAnalysisRoute.Path, proxy.RawAnalysis)
	e.GET(service.UpcomingDatesRoute.Path, proxy.UpcomingDates)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(m.Handler()))
	}
}
