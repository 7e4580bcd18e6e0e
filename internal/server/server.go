// Package server provides the HTTP server and routing for the gateway.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/oracles/internal/config"
	"github.com/aristath/oracles/internal/di"
	healthhandlers "github.com/aristath/oracles/internal/health/handlers"
	bankhandlers "github.com/aristath/oracles/internal/modules/banks/handlers"
	bundlehandlers "github.com/aristath/oracles/internal/modules/bundle/handlers"
	discoveryhandlers "github.com/aristath/oracles/internal/modules/discovery/handlers"
	economyhandlers "github.com/aristath/oracles/internal/modules/economy/handlers"
	indicatorhandlers "github.com/aristath/oracles/internal/modules/indicators/handlers"
	markethandlers "github.com/aristath/oracles/internal/modules/markets/handlers"
	oraclehandlers "github.com/aristath/oracles/internal/modules/oracles/handlers"
	predictionhandlers "github.com/aristath/oracles/internal/modules/prediction/handlers"
	researchhandlers "github.com/aristath/oracles/internal/modules/research/handlers"
)

// RequestTimeout bounds every request except the websocket stream.
const RequestTimeout = 60 * time.Second

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
}

// routeRegistrar is implemented by every module handler.
type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
		systemHandlers: NewSystemHandlers(
			config.Version,
			cfg.Container.Cache,
			cfg.Container.PriceTable.Len(),
			cfg.Log,
		),
	}

	s.setupMiddleware()
	s.setupRoutes()

	// No WriteTimeout: the websocket stream is long-lived and everything else
	// is bounded by RequestTimeout.
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler exposes the router. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware installs the middleware shared by every route
func (s *Server) setupMiddleware() {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID and security headers
	s.router.Use(requestID)
	s.router.Use(securityHeaders)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Payment"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	c := s.container
	predictionHandler := predictionhandlers.NewHandler(c.PredictionService, c.ArbitrageHub, s.log)

	// Websocket stream, metered but outside the request timeout and compression
	predictionHandler.RegisterStreamRoutes(s.router, c.Gate.Middleware)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(RequestTimeout))
		if !s.cfg.DevMode {
			r.Use(middleware.Compress(5))
		}
		r.Use(c.Gate.Middleware)

		// Free routes
		discoveryhandlers.NewHandler(c.DiscoveryService, s.log).RegisterRoutes(r)
		healthhandlers.NewHandler(c.HealthChecker, c.Cache, config.Version, s.log).RegisterRoutes(r)
		r.Get("/stats", s.systemHandlers.HandleGetStats)

		// Metered modules
		modules := []routeRegistrar{
			oraclehandlers.NewHandler(c.OracleService, s.log),
			predictionHandler,
			bankhandlers.NewHandler(c.BanksService, s.log),
			economyhandlers.NewHandler(c.EconomyService, s.log),
			markethandlers.NewHandler(c.MarketsService, s.log),
			researchhandlers.NewHandler(c.ResearchService, s.log),
			indicatorhandlers.NewHandler(c.IndicatorService, s.log),
			bundlehandlers.NewHandler(c.BundleService, s.log),
		}
		for _, m := range modules {
			m.RegisterRoutes(r)
		}
	})
}

// Start starts the HTTP server. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Str("public_url", s.cfg.PublicURL).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := s.log.Info()
		if ww.Status() >= http.StatusInternalServerError {
			event = s.log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
