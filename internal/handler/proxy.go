package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"tqf-proxy/internal/metrics"
	"tqf-proxy/internal/model"
	"tqf-proxy/internal/service"
)

// ProxyHandler serves the proxied TQF API routes.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewProxyHandler creates a ProxyHandler. The metrics parameter may be nil.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger, m *metrics.Metrics) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
		metrics: m,
	}
}

// Consciousness relays GET /api/consciousness/current.
func (h *ProxyHandler) Consciousness(c echo.Context) error {
	return h.serve(c, service.ConsciousnessRoute)
}

// RawAnalysis relays the daily raw analysis, forwarding lang when present.
func (h *ProxyHandler) RawAnalysis(c echo.Context) error {
	return h.serve(c, service.RawAnalysisRoute)
}

// UpcomingDates relays upcoming important dates, lang defaulting to "en".
func (h *ProxyHandler) UpcomingDates(c echo.Context) error {
	return h.serve(c, service.UpcomingDatesRoute)
}

// serve answers 200 with the upstream JSON untouched, or 500 with the route's
// fixed error envelope. The cause is logged, never returned to the client.
func (h *ProxyHandler) serve(c echo.Context, route model.Route) error {
	req := c.Request()

	res, err := h.service.Fetch(req.Context(), route, c.QueryParams())
	if err != nil {
		return h.fail(c, route, err)
	}

	return c.JSONBlob(http.StatusOK, res.Body)
}

func (h *ProxyHandler) fail(c echo.Context, route model.Route, err error) error {
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		// The client went away; nobody will read the envelope.
		level = slog.LevelWarn
	}
	h.logger.Log(c.Request().Context(), level, "upstream failure",
		"route", route.Name,
		"err", err,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)

	if h.metrics != nil {
		h.metrics.UpstreamFailures.WithLabelValues(route.Name).Inc()
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{
		"error": route.ErrorMessage,
	})
}
