// Package server provides the HTTP REST API for TOC Cloud.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/config"
	"github.com/toc-cloud/toc-cloud/internal/server/middleware"
	"github.com/toc-cloud/toc-cloud/internal/server/ratelimit"
	"github.com/toc-cloud/toc-cloud/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	store          Store
	linter         Linter
	annotator      Annotator
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	userService    *UserService
	authHandler    *AuthHandler
	validator      *validator.Validate
	logger         *zap.Logger
	allowedOrigins map[string]bool
	assistTimeout  time.Duration
}

// Config holds server configuration and dependencies.
type Config struct {
	Port           int
	AllowedOrigins []string // "*" allows any origin
	AssistTimeout  time.Duration

	Store     Store
	Linter    Linter    // nil disables POST /assist
	Annotator Annotator // nil disables kana readings

	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	RateLimit *ratelimit.Config // nil uses ratelimit defaults
	Logger    *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("server requires a store")
	}
	if cfg.JWT == nil || cfg.Password == nil {
		return nil, errors.New("server requires JWT and password configs")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.AssistTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	s := &Server{
		store:          cfg.Store,
		linter:         cfg.Linter,
		annotator:      cfg.Annotator,
		rateLimiter:    ratelimit.NewLimiter(cfg.RateLimit),
		validator:      types.NewValidator(),
		logger:         logger.Named("http"),
		allowedOrigins: make(map[string]bool, len(cfg.AllowedOrigins)),
		assistTimeout:  timeout,
	}
	for _, origin := range cfg.AllowedOrigins {
		s.allowedOrigins[origin] = true
	}

	s.jwtService = NewJWTService(cfg.JWT)
	s.userService = NewUserService(cfg.Store, cfg.Password)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService).WithLogger(s.logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	requireAuth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	optionalAuth := middleware.OptionalAuth(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", requireAuth(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("PUT /me/profile", requireAuth(http.HandlerFunc(s.handleUpdateProfile)))

	// Editor
	mux.HandleFunc("POST /preview", s.handlePreview)
	mux.HandleFunc("POST /assist", s.handleAssist)

	// Clouds
	mux.HandleFunc("GET /clouds", s.handleListClouds)
	mux.Handle("POST /clouds", requireAuth(http.HandlerFunc(s.handleCreateCloud)))
	mux.HandleFunc("GET /clouds/{id}", s.handleGetCloud)
	mux.HandleFunc("GET /clouds/{id}/read-aloud", s.handleCloudReadAloud)
	mux.Handle("PUT /clouds/{id}/rating", requireAuth(http.HandlerFunc(s.handleSetRating)))
	mux.Handle("PUT /clouds/{id}/bookmark", requireAuth(http.HandlerFunc(s.handleSetBookmark)))
	mux.Handle("GET /clouds/{id}/me", requireAuth(http.HandlerFunc(s.handleViewerState)))
	mux.Handle("GET /me/bookmarks", requireAuth(http.HandlerFunc(s.handleListBookmarks)))

	// Solutions
	mux.Handle("GET /clouds/{id}/solutions", optionalAuth(http.HandlerFunc(s.handleListSolutions)))
	mux.Handle("PUT /clouds/{id}/solutions", requireAuth(http.HandlerFunc(s.handleUpsertSolution)))
	mux.Handle("POST /solutions/{id}/like", requireAuth(http.HandlerFunc(s.handleToggleLike)))

	return mux
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests, waits for in-flight ones and stops the
// rate limiter. The store is owned by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers for allowed origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case s.allowedOrigins["*"]:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && s.allowedOrigins[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware. Preflight requests pass through
// without spending a token.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpdateProfile changes the signed-in user's handle name.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.authHandler.UpdateProfileWithUserID(w, r, userID)
}

// handleUpdatePassword handles password update requests for the signed-in user.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.authHandler.UpdatePasswordWithUserID(w, r, userID)
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code. Server-side failures are logged and
// hidden behind a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	switch {
	case status == http.StatusBadGateway || status == http.StatusGatewayTimeout:
		s.logger.Warn("upstream failure", zap.String("path", r.URL.Path), zap.Error(err))
	case status >= 500:
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "internal server error"
	}
	s.errorResponse(w, status, message)
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", s.extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
