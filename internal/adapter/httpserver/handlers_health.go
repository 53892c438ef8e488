package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/remedyhub/internal/adapter/metrics"
	"github.com/pscheid92/remedyhub/internal/app"
	"github.com/pscheid92/remedyhub/internal/platform/version"
)

const (
	startupCheckTimeout   = 2 * time.Second
	readinessCheckTimeout = 5 * time.Second

	statusReady     = "ready"
	statusUnhealthy = "unhealthy"
	checkCatalog    = "catalog"
)

// HealthCheck is a named dependency check, such as a database ping.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// healthReport lists every check by name, "ok" or the error it returned.
type healthReport struct {
	Status  string             `json:"status"`
	Checks  map[string]string  `json:"checks,omitempty"`
	Catalog *app.CatalogStatus `json:"catalog,omitempty"`
}

func (r *healthReport) record(name string, err error) {
	if err != nil {
		r.Status = statusUnhealthy
		r.Checks[name] = err.Error()
		return
	}
	r.Checks[name] = "ok"
}

func (s *Server) registerHealthRoutes() {
	s.echo.GET("/health/startup", s.handleStartup)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/version", s.handleVersion)
	if s.registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler(s.registry)))
	}
}

// handleStartup only covers the backing stores; the catalog may still be loading.
func (s *Server) handleStartup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), startupCheckTimeout)
	defer cancel()

	return writeHealth(c, s.runHealthChecks(ctx))
}

func (s *Server) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": s.clock.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

// handleReadiness additionally requires the interaction table to be loaded,
// since interaction checks cannot be answered without it.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessCheckTimeout)
	defer cancel()

	report := s.runHealthChecks(ctx)
	catalog, err := s.app.CatalogStatus(ctx)
	report.record(checkCatalog, err)
	if err == nil {
		report.Catalog = &catalog
	}
	return writeHealth(c, report)
}

// runHealthChecks runs every check so a single response names all failing
// dependencies.
func (s *Server) runHealthChecks(ctx context.Context) healthReport {
	report := healthReport{Status: statusReady, Checks: make(map[string]string, len(s.healthChecks)+1)}
	for _, hc := range s.healthChecks {
		report.record(hc.Name, hc.Check(ctx))
	}
	return report
}

func writeHealth(c echo.Context, report healthReport) error {
	code := http.StatusOK
	if report.Status != statusReady {
		code = http.StatusServiceUnavailable
	}
	if err := c.JSON(code, report); err != nil {
		return fmt.Errorf("failed to write health response: %w", err)
	}
	return nil
}

func (s *Server) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
