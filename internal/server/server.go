package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Varshinibhargav-17/ExampulseAI/internal/database"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/handlers"
	"github.com/Varshinibhargav-17/ExampulseAI/internal/server/response"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/auth"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/cache"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/health"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/logger"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/notify"
	"github.com/Varshinibhargav-17/ExampulseAI/pkg/risk"
)

// Version is reported by the health and readiness endpoints.
const Version = "1.0.0"

// Server is the ExamPulse HTTP server.
type Server struct {
	config     *Config
	db         *database.Database
	log        *logger.Logger
	hub        *notify.Hub
	cache      cache.Cache
	httpServer *http.Server
	router     *Router
}

// New creates the HTTP server and wires the full handler graph.
func New(config *Config, db *database.Database, tokens *auth.JWTManager, log *logger.Logger) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if log == nil {
		log = logger.Default()
	}

	server := &Server{
		config: config,
		db:     db,
		log:    log,
		hub:    notify.NewHub(log),
	}

	if config.Cache != nil && config.Cache.Enabled {
		c, err := cache.New(config.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create baseline cache: %w", err)
		}
		server.cache = c
	}

	server.router = NewRouter(config, db, tokens, server.hub, server.cache, log)

	server.httpServer = &http.Server{
		Addr:         config.GetAddress(),
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return server, nil
}

// Hub returns the live alert hub so callers outside the request path can
// broadcast on it.
func (s *Server) Hub() *notify.Hub {
	return s.hub
}

// Start runs the server until the context is cancelled or an interrupt
// signal arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("address", s.config.GetAddress()).Info("Starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		s.log.Info("Interrupt received, shutting down")
	case <-ctx.Done():
		s.log.Info("Context cancelled, shutting down")
	}

	return s.Shutdown()
}

// Shutdown drains in-flight requests and closes the alert hub.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.log.WithError(err).Warn("Cache close failed")
		}
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.WithError(err).Error("Server shutdown failed")
		return err
	}

	s.log.Info("Server shutdown complete")
	return nil
}

// Router is the HTTP router. All requests pass through the middleware
// stack before reaching the mux.
type Router struct {
	*http.ServeMux
	config     *Config
	db         *database.Database
	log        *logger.Logger
	middleware *MiddlewareStack
	checker    *health.HealthChecker
	registry   *prometheus.Registry
}

// NewRouter builds the router, the middleware stack and every route.
func NewRouter(config *Config, db *database.Database, tokens *auth.JWTManager, hub *notify.Hub, baselineCache cache.Cache, log *logger.Logger) *Router {
	router := &Router{
		ServeMux:   http.NewServeMux(),
		config:     config,
		db:         db,
		log:        log,
		middleware: NewMiddlewareStack(),
		checker:    health.NewHealthChecker(10 * time.Second),
		registry:   prometheus.NewRegistry(),
	}

	router.checker.AddChecker(health.DatabaseChecker("database", func(ctx context.Context) error {
		return db.Connection().Ping(ctx)
	}))
	router.checker.AddChecker(health.HubChecker("alert_hub", hub.ClientCount))

	router.setupMiddleware()
	router.setupRoutes(tokens, hub, baselineCache)

	return router
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.middleware.Apply(r.ServeMux).ServeHTTP(w, req)
}

func (r *Router) setupMiddleware() {
	// Order matters: recovery first so every later panic is caught, then
	// the request ID and access log so all requests are traceable.
	r.middleware.Use(RecoveryMiddleware(r.log))
	r.middleware.Use(SecurityHeadersMiddleware())
	if r.config.LogRequests {
		r.middleware.Use(logger.NewHTTPLogger(r.log).Middleware)
	}
	if r.config.CORSEnabled {
		r.middleware.Use(CORSMiddleware(r.config))
	}
	if r.config.RateLimitEnabled {
		r.middleware.Use(RateLimitMiddleware(r.config))
	}
	r.middleware.Use(MaxRequestSizeMiddleware(r.config.MaxRequestSize))
}

func (r *Router) setupRoutes(tokens *auth.JWTManager, hub *notify.Hub, baselineCache cache.Cache) {
	r.HandleFunc(r.config.HealthCheckPath, r.healthCheckHandler)
	r.HandleFunc(r.config.ReadyCheckPath, r.readinessHandler)

	if r.config.MetricsEnabled {
		r.Handle(r.config.MetricsPath, promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	}

	metrics := risk.NewMetrics(r.registry)
	scorer := risk.NewScorer().WithMetrics(metrics)
	generator := risk.NewGenerator(risk.AlertPolicy{
		Threshold: r.config.AlertThreshold,
		Cooldown:  r.config.AlertCooldown,
	}).WithMetrics(metrics)
	classifier := risk.NewClassifier()

	var baselines handlers.BaselineStore = r.db.Baselines()
	if baselineCache != nil {
		baselines = database.NewCachedBaselineStore(r.db.Baselines(), baselineCache, r.log)
	}

	authHandler := handlers.NewAuthHandler(r.db.Users(), tokens, r.log)
	baselineHandler := handlers.NewBaselineHandler(baselines, r.log)
	examHandler := handlers.NewExamHandler(r.db.Exams(), r.db.Sessions(), r.db.Events(), r.log)
	alertHandler := handlers.NewAlertHandler(r.db.Alerts(), r.log)
	sessionRouter := &handlers.SessionRouter{
		Sessions: handlers.NewSessionHandler(r.db.Sessions(), r.db.Events(), r.db.Alerts(), r.log),
		Events:   handlers.NewEventHandler(r.db.Sessions(), r.db.Events(), classifier, r.log),
		Risk: handlers.NewRiskHandler(
			r.db.Sessions(), r.db.Events(), baselines, r.db.Alerts(),
			scorer, generator, hub, r.log,
		),
	}

	authMW := auth.NewMiddleware(tokens)
	authMW.Unauthorized = func(w http.ResponseWriter, req *http.Request, err error) {
		rw := response.NewResponseWriter(w, logger.RequestIDFromContext(req.Context()))
		rw.Unauthorized(err.Error())
	}

	prefix := r.config.APIPrefix

	// Token endpoints are the only unauthenticated API routes.
	r.HandleFunc(prefix+"/auth/register", postOnly(authHandler.Register))
	r.HandleFunc(prefix+"/auth/login", postOnly(authHandler.Login))
	r.HandleFunc(prefix+"/auth/refresh", postOnly(authHandler.Refresh))

	r.Handle(prefix+"/baselines", authMW.Authenticate(baselineHandler))
	r.Handle(prefix+"/baselines/", authMW.Authenticate(baselineHandler))
	r.Handle(prefix+"/exams", authMW.Authenticate(examHandler))
	r.Handle(prefix+"/exams/", authMW.Authenticate(examHandler))
	r.Handle(prefix+"/sessions", authMW.Authenticate(sessionRouter))
	r.Handle(prefix+"/sessions/", authMW.Authenticate(sessionRouter))
	r.Handle(prefix+"/alerts", authMW.Authenticate(authMW.RequireProctor(alertHandler)))
	r.Handle(prefix+"/alerts/", authMW.Authenticate(authMW.RequireProctor(alertHandler)))

	// Live alert feed for proctor dashboards.
	r.Handle(prefix+"/ws/alerts", authMW.Authenticate(authMW.RequireProctor(hub)))
}

func (r *Router) healthCheckHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := r.checker.Check(req.Context(), "exampulse", Version)

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		if result.Error != "" {
			checks[name] = string(result.Status) + ": " + result.Error
		} else {
			checks[name] = string(result.Status)
		}
	}

	response.WriteHealthCheck(w, string(report.Status), Version, checks)
}

// readinessHandler only verifies the database. Readiness gates traffic, so
// non-critical checks do not fail it.
func (r *Router) readinessHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	status := "healthy"
	if err := r.db.Connection().Ping(req.Context()); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "healthy"
	}

	response.WriteHealthCheck(w, status, Version, checks)
}

func postOnly(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler(w, req)
	}
}
