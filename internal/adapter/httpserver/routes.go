package httpserver

import (
	"github.com/labstack/echo/v4/middleware"
)

// registerRoutes installs the edge chain and every route. The error
// middleware runs twice: the outer one renders failures raised by edge
// middleware, the inner one renders handler failures before the metrics
// middleware observes the status.
func (s *Server) registerRoutes() {
	includeDebug := !s.config.IsProduction()

	s.echo.Use(correlationMiddleware)
	s.echo.Use(s.setupRequestLoggerMiddleware())
	s.echo.Use(ErrorHandlingMiddleware(includeDebug, s.httpMetrics))
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.setupSecureHeadersMiddleware())
	s.echo.Use(s.maintenanceMiddleware)
	s.echo.Use(s.botBlockingMiddleware)
	s.echo.Use(s.setupCORSMiddleware())
	s.echo.Use(newRateLimiter(s.config.RateLimitRPS, s.config.RateLimitBurst))
	if s.httpMetrics != nil {
		s.echo.Use(s.httpMetrics.Middleware())
	}
	s.echo.Use(ErrorHandlingMiddleware(includeDebug, s.httpMetrics))

	s.registerHealthRoutes()

	api := s.echo.Group("/api", s.setupCSRFMiddleware())
	authLimiter := newRateLimiter(s.config.AuthRateLimitRPS, s.config.AuthRateLimitBurst)

	s.registerAuthRoutes(api, authLimiter)
	s.registerUserRoutes(api)
	s.registerRemedyRoutes(api)
	s.registerFavoriteRoutes(api)
	s.registerJournalRoutes(api)
	s.registerMedicationRoutes(api)
	s.registerSubscriptionRoutes(api)
	s.registerHistoryRoutes(api)
	s.registerInteractionRoutes(api)
	s.registerContributionRoutes(api)
}
