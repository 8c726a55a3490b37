package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tqf-proxy/internal/config"
	"tqf-proxy/internal/service"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type statusResponse struct {
	Status      string   `json:"status"`
	Version     string   `json:"version"`
	UpstreamURL string   `json:"upstream_url"`
	Routes      []string `json:"routes"`
}

// Status returns proxy status information. The API key is never included.
func (h *HealthHandler) Status(c echo.Context) error {
	routes := service.Routes()
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		paths = append(paths, r.Path)
	}

	return c.JSON(http.StatusOK, statusResponse{
		Status:      "ok",
		Version:     string(h.version),
		UpstreamURL: h.cfg.Upstream.BaseURL,
		Routes:      paths,
	})
}
