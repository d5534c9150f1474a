// Package handler implements the HTTP endpoints of the fetch proxy.
package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"data-fetch-agent/internal/config"
	"data-fetch-agent/internal/metrics"
	"data-fetch-agent/internal/web"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// The metrics endpoint is mounted only when enabled and m is non-nil.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, fetch *FetchHandler, health *HealthHandler) {
	e.GET("/", web.Index)
	e.GET("/healthz", health.Healthz)
	e.GET("/status", health.Status)

	e.POST("/api/fetch", fetch.Handle)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
