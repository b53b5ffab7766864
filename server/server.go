// Package server wires the HTTP stack: echo, CORS for the single allowed
// frontend origin, the global throughput guard, and the v1 routes.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/server/middleware"
	"github.com/edupath/mentor/server/ratelimit"
	apiv1 "github.com/edupath/mentor/server/router/api/v1"
	"github.com/edupath/mentor/server/service/chat"
	"github.com/edupath/mentor/server/service/quiz"
)

type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
	guard      *middleware.ThroughputGuard
}

func NewServer(
	prof *profile.Profile,
	chatService *chat.Service,
	quizService *quiz.Service,
	limiter ratelimit.Limiter,
) *Server {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.Recover())
	echoServer.Use(requestLogger())

	// The frontend is a credentialed single-origin client; a wildcard
	// origin would break cookie-bearing requests.
	echoServer.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{prof.AllowOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	guard := middleware.NewThroughputGuard()
	echoServer.Use(guard.Middleware())

	apiv1.NewAPIV1Service(prof, chatService, quizService, limiter).RegisterRoutes(echoServer)

	return &Server{
		Profile:    prof,
		echoServer: echoServer,
		guard:      guard,
	}
}

// Echo exposes the underlying instance, mostly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}

// Guard exposes the throughput guard so the runner can evict idle buckets.
func (s *Server) Guard() *middleware.ThroughputGuard {
	return s.guard
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server listening", "addr", addr, "mode", s.Profile.Mode, "version", s.Profile.Version)
	if err := s.echoServer.Start(addr); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start http server")
	}
	return nil
}

// Shutdown drains in-flight requests with a bounded grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.echoServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shut down http server")
	}
	slog.Info("server stopped")
	return nil
}

// requestLogger emits one structured line per request.
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			)
			return err
		}
	}
}
