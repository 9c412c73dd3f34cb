// Package server собирает HTTP сервер сервиса аутентификации:
// зависимости через конструкторы, маршруты, цепочка middleware,
// graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/easygen/auth-service/internal/config"
	"github.com/easygen/auth-service/internal/crypto"
	"github.com/easygen/auth-service/internal/server/auth"
	"github.com/easygen/auth-service/internal/server/handlers"
	"github.com/easygen/auth-service/internal/server/jwt"
	"github.com/easygen/auth-service/internal/server/middleware"
	"github.com/easygen/auth-service/internal/server/storage"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second

	// лимит на signup/signin: 5 запросов в минуту на клиента
	authRateLimit  = 5
	authRateWindow = time.Minute
)

// Server represents the HTTP server with its dependencies
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

// New собирает сервер: один раз на старте процесса создаются
// hasher, codec и authentication service, затем маршруты и middleware
func New(cfg *config.Config, logger *slog.Logger, users storage.UserStorage, version string) *Server {
	hasher := crypto.NewPasswordHasher()
	codec := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(logger, users, hasher, codec)

	cookieCfg := handlers.NewCookieConfig(cfg.IsProduction(), cfg.TokenTTL)
	authHandler := handlers.NewAuthHandler(logger, authService, cookieCfg)
	userHandler := handlers.NewUserHandler(logger, users)
	healthHandler := handlers.NewHealthHandler(logger, users, version)

	session := middleware.SessionMiddleware(logger, authService)

	mux := http.NewServeMux()
	mux.Handle("POST /v1/auth/signup", http.HandlerFunc(authHandler.Signup))
	mux.Handle("POST /v1/auth/signin", http.HandlerFunc(authHandler.Signin))
	mux.Handle("POST /v1/auth/logout", session(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /v1/users/profile", session(http.HandlerFunc(userHandler.Profile)))
	mux.Handle("GET /v1/health", http.HandlerFunc(healthHandler.Health))

	rateLimit := middleware.RateLimitByPathMiddleware([]middleware.PathRateLimit{
		{Path: "/v1/auth/signup", Rate: authRateLimit, Window: authRateWindow},
		{Path: "/v1/auth/signin", Rate: authRateLimit, Window: authRateWindow},
	}, logger)

	// Cookie должна переживать cross-origin запросы фронтенда
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	// Цепочка: recovery -> logging -> security headers -> CORS -> rate limit -> mux
	var handler http.Handler = mux
	handler = rateLimit(handler)
	handler = corsHandler.Handler(handler)
	handler = middleware.SecurityHeadersMiddleware()(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Run запускает сервер и блокируется до отмены контекста
// После отмены выполняется graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	errC := make(chan error, 1)

	go func() {
		s.logger.Info("server listening",
			"addr", s.httpServer.Addr,
			"env", s.cfg.Env)

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	select {
	case err := <-errC:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
